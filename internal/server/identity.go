package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/osse101/Hearthmarket_Go/internal/auth"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// IdentityMiddleware attaches the calling user to the request context.
//
// With a verifier the caller must present "Authorization: Bearer <token>".
// Without one the upstream, already trusted through the API key, names the
// caller in X-User-ID.
func IdentityMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasPrefixAny(r.URL.Path, PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromContext(r.Context())

			if verifier == nil {
				userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
				if userID == "" {
					log.Warn(LogMsgIdentityRejected, "path", r.URL.Path, "reason", "missing "+HeaderUserID)
					writeError(w, http.StatusUnauthorized, ErrMsgMissingIdentity, domain.KindUnauthenticated)
					return
				}
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), &auth.Identity{UserID: userID})))
				return
			}

			header := r.Header.Get(HeaderAuthorization)
			if !strings.HasPrefix(header, BearerPrefix) {
				log.Warn(LogMsgIdentityRejected, "path", r.URL.Path, "reason", "missing bearer token")
				writeError(w, http.StatusUnauthorized, ErrMsgMissingIdentity, domain.KindUnauthenticated)
				return
			}

			identity, err := verifier.Verify(r.Context(), strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					log.Warn(LogMsgIdentityRejected, "path", r.URL.Path, "error", err)
					writeError(w, http.StatusUnauthorized, ErrMsgInvalidToken, domain.KindUnauthenticated)
					return
				}
				log.Error(LogMsgIdentityFailed, "error", err)
				writeError(w, http.StatusBadGateway, ErrMsgIdentityUnavailable, domain.KindInternal)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
