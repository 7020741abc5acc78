package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	PotionsBrewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePotionsBrewed,
			Help: HelpTextPotionsBrewed,
		},
		[]string{LabelRecipe},
	)

	ExchangeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameExchangeRequests,
			Help: HelpTextExchangeRequests,
		},
		[]string{LabelAction},
	)

	CurrencyTraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyTraded,
			Help: HelpTextCurrencyTraded,
		},
		[]string{LabelDenomination},
	)

	ShopPurchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameShopPurchases,
			Help: HelpTextShopPurchases,
		},
		[]string{LabelShop},
	)

	ShopRestocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameShopRestocks,
			Help: HelpTextShopRestocks,
		},
	)

	TillWithdrawals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTillWithdrawals,
			Help: HelpTextTillWithdrawals,
		},
	)

	TransactionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactionConflicts,
			Help: HelpTextTransactionConflicts,
		},
		[]string{LabelOperation},
	)
)
