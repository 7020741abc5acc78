package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/Hearthmarket_Go/internal/auth"
	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/database"
	"github.com/osse101/Hearthmarket_Go/internal/exchange"
	"github.com/osse101/Hearthmarket_Go/internal/handler"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/metrics"
	"github.com/osse101/Hearthmarket_Go/internal/shop"
)

type Server struct {
	httpServer      *http.Server
	dbPool          database.Pool
	craftingService crafting.Service
	exchangeService exchange.Service
	shopService     shop.Service
}

// NewServer creates a new Server instance. dbPool may be nil when the in-memory
// store is used; verifier may be nil to trust X-User-ID from the API-key holder.
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, verifier auth.Verifier, policy concurrency.RetryPolicy, craftingService crafting.Service, exchangeService exchange.Service, shopService shop.Service) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(IdentityMiddleware(verifier))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/alchemy", func(r chi.Router) {
			r.Post("/brew", handler.HandleBrewPotion(craftingService, policy))
			r.Get("/recipes", handler.HandleGetRecipes(craftingService))
		})

		r.Route("/exchange", func(r chi.Router) {
			r.Get("/quote", handler.HandleQuoteExchange(exchangeService))
			r.Route("/requests", func(r chi.Router) {
				r.Get("/", handler.HandleListExchanges(exchangeService))
				r.Post("/", handler.HandleCreateExchange(exchangeService, policy))
				r.Post("/{requestID}/accept", handler.HandleAcceptExchange(exchangeService, policy))
				r.Post("/{requestID}/cancel", handler.HandleCancelExchange(exchangeService, policy))
			})
		})

		r.Route("/shops/{shopID}", func(r chi.Router) {
			r.Get("/", handler.HandleGetShop(shopService))
			r.Post("/purchase", handler.HandlePurchase(shopService, policy))
			r.Post("/restock", handler.HandleRestock(shopService, policy))
			r.Post("/withdraw", handler.HandleWithdrawTill(shopService, policy))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		dbPool:          dbPool,
		craftingService: craftingService,
		exchangeService: exchangeService,
		shopService:     shopService,
	}
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasPrefixAny(r.URL.Path, QuietPaths) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		// Keep the caller's request ID so traces join up across services
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
