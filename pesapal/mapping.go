package pesapal

import "strings"

// Local payment statuses stored on orders.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
	PaymentRefunded   = "REFUNDED"
)

// Local order statuses. CONFIRMED through DELIVERED are advanced by
// fulfilment, not by the gateway.
const (
	OrderPending    = "PENDING"
	OrderConfirmed  = "CONFIRMED"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
	OrderRefunded   = "REFUNDED"
)

// StatusPair is the local (payment, order) status a gateway status maps
// to. Every mapping sets both together; no path sets one without the
// other.
type StatusPair struct {
	PaymentStatus string
	OrderStatus   string
}

// one row per recognized gateway status, case-insensitive on lookup
var statusTable = map[string]StatusPair{
	"COMPLETED":   {PaymentCompleted, OrderConfirmed},
	"PAID":        {PaymentCompleted, OrderConfirmed},
	"POSTED":      {PaymentCompleted, OrderConfirmed},
	"PENDING":     {PaymentPending, OrderPending},
	"PROCESSING":  {PaymentPending, OrderPending},
	"IN_PROGRESS": {PaymentPending, OrderPending},
	"FAILED":      {PaymentFailed, OrderCancelled},
	"INVALID":     {PaymentFailed, OrderCancelled},
	"DECLINED":    {PaymentFailed, OrderCancelled},
	"CANCELLED":   {PaymentFailed, OrderCancelled},
	"VOIDED":      {PaymentFailed, OrderCancelled},
	"REFUNDED":    {PaymentRefunded, OrderRefunded},
	"REFUND":      {PaymentRefunded, OrderRefunded},
}

var defaultStatusPair = StatusPair{PaymentPending, OrderPending}

// MapStatus translates the gateway's status vocabulary into the local
// status pair. Unknown or empty statuses map to PENDING/PENDING. Both the
// IPN path and the status-poll path go through this table, so the two
// can never diverge.
func MapStatus(gatewayStatus string) StatusPair {
	if pair, ok := statusTable[strings.ToUpper(gatewayStatus)]; ok {
		return pair
	}
	return defaultStatusPair
}

// Terminal reports whether a payment status is settled. A settled status
// is never overwritten by a later PENDING notification; the gateway
// delivers at least once and out of order.
func Terminal(paymentStatus string) bool {
	switch paymentStatus {
	case PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
