package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNamePotionsBrewed        = "potions_brewed_total"
	MetricNameExchangeRequests     = "exchange_requests_total"
	MetricNameShopPurchases        = "shop_purchases_total"
	MetricNameShopRestocks         = "shop_restocks_total"
	MetricNameTillWithdrawals      = "till_withdrawals_total"
	MetricNameCurrencyTraded       = "currency_traded_total"
	MetricNameTransactionConflicts = "transaction_conflicts_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextPotionsBrewed        = "Total number of potions brewed, by recipe"
	HelpTextExchangeRequests     = "Exchange order book activity, by action"
	HelpTextShopPurchases        = "Total number of units bought from shops"
	HelpTextShopRestocks         = "Total number of shop restocks"
	HelpTextTillWithdrawals      = "Total number of shop till withdrawals"
	HelpTextCurrencyTraded       = "Coins offered through accepted exchange requests, by denomination"
	HelpTextTransactionConflicts = "Transactions that ended in a conflict after all retries, by operation"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod       = "method"
	LabelPath         = "path"
	LabelStatus       = "status"
	LabelType         = "type"
	LabelRecipe       = "recipe"
	LabelAction       = "action"
	LabelShop         = "shop"
	LabelDenomination = "denomination"
	LabelOperation    = "operation"
)

// Exchange actions
const (
	ActionCreated   = "created"
	ActionAccepted  = "accepted"
	ActionCancelled = "cancelled"
)

// PathUnmatched labels requests that matched no route
const PathUnmatched = "unmatched"

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
