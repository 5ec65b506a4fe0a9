package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"artstore/pesapal"
	"artstore/web/db"
)

var ErrOrderNotFound = errors.New("order not found")

// Notification is one gateway status callback, from either the IPN
// endpoint or a synchronous status poll.
type Notification struct {
	TrackingID        string
	MerchantReference string
	NotificationType  string
	Status            string
	PaymentMethod     string
	Amount            string
	Currency          string
}

// Result is what applying a notification produced. The fresh flags are
// true only on the first transition into the status, so collaborators
// (confirmation mail, inventory) can act exactly once per transition.
type Result struct {
	Order          *db.Order
	PaymentStatus  string
	OrderStatus    string
	FreshCompleted bool
	FreshFailed    bool
}

// FindOrder locates the local order a gateway reference points at. The
// merchant reference is not guaranteed to equal our id or number, so the
// strategies run strictly in order and the first match wins:
//
//	a. stored gateway tracking id, exact
//	b. order number, exact
//	c. order id, exact — only for references long enough to plausibly
//	   be an id
//	d. order number containing the last dash-separated segment of the
//	   reference — only for segments of 6+ chars, a loose fallback for
//	   mangled references
func FindOrder(trackingID, merchantReference string) (*db.Order, error) {
	var order db.Order

	if trackingID != "" {
		if err := db.DB.Where("pesapal_order_id = ?", trackingID).First(&order).Error; err == nil {
			return &order, nil
		}
	}

	if err := db.DB.Where("order_number = ?", merchantReference).First(&order).Error; err == nil {
		return &order, nil
	}

	if len(merchantReference) >= 10 {
		if err := db.DB.Where("id = ?", merchantReference).First(&order).Error; err == nil {
			return &order, nil
		}
	}

	parts := strings.Split(merchantReference, "-")
	if last := parts[len(parts)-1]; len(last) >= 6 {
		if err := db.DB.Where("order_number LIKE ?", "%"+last+"%").First(&order).Error; err == nil {
			return &order, nil
		}
	}

	return nil, ErrOrderNotFound
}

// Apply maps the gateway status onto the local pair and writes it to the
// order, last notification wins. One exception: a PENDING-mapped status
// never overwrites a settled payment status, so a delayed or redelivered
// notification cannot regress a completed order. The audit note is
// appended either way, so redelivery stays visible.
func Apply(order *db.Order, n Notification) (*Result, error) {
	pair := pesapal.MapStatus(n.Status)

	prevPayment := order.PaymentStatus
	newPayment := pair.PaymentStatus
	newStatus := pair.OrderStatus
	if pesapal.Terminal(prevPayment) && newPayment == pesapal.PaymentPending {
		newPayment = order.PaymentStatus
		newStatus = order.Status
	}

	note := auditNote(n)
	if order.Notes != "" {
		order.Notes = order.Notes + "\n" + note
	} else {
		order.Notes = note
	}

	order.PaymentStatus = newPayment
	order.Status = newStatus
	if n.TrackingID != "" {
		order.PesapalTransactionID = n.TrackingID
	}
	if n.PaymentMethod != "" {
		order.PaymentMethod = n.PaymentMethod
	}

	if err := db.DB.Save(order).Error; err != nil {
		return nil, err
	}

	return &Result{
		Order:          order,
		PaymentStatus:  newPayment,
		OrderStatus:    newStatus,
		FreshCompleted: newPayment == pesapal.PaymentCompleted && prevPayment != pesapal.PaymentCompleted,
		FreshFailed:    newPayment == pesapal.PaymentFailed && prevPayment != pesapal.PaymentFailed,
	}, nil
}

func auditNote(n Notification) string {
	return strings.Join([]string{
		fmt.Sprintf("[Pesapal IPN %s]", time.Now().UTC().Format(time.RFC3339)),
		"Status: " + orNA(n.Status),
		"Payment Method: " + orNA(n.PaymentMethod),
		fmt.Sprintf("Amount: %s %s", orNA(n.Amount), orNA(n.Currency)),
		"Notification Type: " + orNA(n.NotificationType),
	}, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
