package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"artstore/web/db"
	"artstore/web/email"
	"artstore/web/payments"

	"github.com/gin-gonic/gin"
)

// flexString tolerates the gateway sending a field as either a JSON
// number or a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexString(s)
	return nil
}

type ipnInput struct {
	TrackingID        string     `json:"pesapal_transaction_tracking_id"`
	MerchantReference string     `json:"pesapal_merchant_reference"`
	NotificationType  string     `json:"pesapal_notification_type"`
	Status            string     `json:"status"`
	PaymentMethod     string     `json:"payment_method"`
	TransactionAmount flexString `json:"transaction_amount"`
	Currency          string     `json:"currency"`
}

// PesapalIPN receives asynchronous payment notifications from the
// gateway. Non-2xx responses make the gateway retry, which is the only
// retry mechanism; nothing is retried internally.
func PesapalIPN(c *gin.Context) {
	var body ipnInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.TrackingID == "" || body.MerchantReference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	log.Printf("[Pesapal IPN] received: tracking=%s ref=%s status=%s type=%s",
		body.TrackingID, body.MerchantReference, body.Status, body.NotificationType)

	order, err := payments.FindOrder(body.TrackingID, body.MerchantReference)
	if err != nil {
		log.Println("[Pesapal IPN] order not found:", body.MerchantReference)
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		return
	}

	res, err := payments.Apply(order, payments.Notification{
		TrackingID:        body.TrackingID,
		MerchantReference: body.MerchantReference,
		NotificationType:  body.NotificationType,
		Status:            body.Status,
		PaymentMethod:     body.PaymentMethod,
		Amount:            string(body.TransactionAmount),
		Currency:          body.Currency,
	})
	if err != nil {
		log.Println("[Pesapal IPN] failed to update order:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process IPN"})
		return
	}

	log.Printf("[Pesapal IPN] order %s updated: %s/%s",
		res.Order.OrderNumber, res.PaymentStatus, res.OrderStatus)

	dispatchPaymentEffects(res)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"orderId":       res.Order.ID,
		"orderNumber":   res.Order.OrderNumber,
		"paymentStatus": res.PaymentStatus,
		"orderStatus":   res.OrderStatus,
	}})
}

// PesapalIPNHealth answers the gateway's reachability probe.
func PesapalIPNHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Pesapal IPN endpoint is active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// dispatchPaymentEffects fires the once-per-transition side effects. Both
// the IPN path and the status-poll path come through here, and the fresh
// flags guarantee each effect runs exactly once per transition no matter
// how often the gateway redelivers.
func dispatchPaymentEffects(res *payments.Result) {
	if res.FreshCompleted {
		go func(o db.Order) {
			if err := email.SendOrderConfirmation(&o); err != nil {
				log.Println("[Pesapal] confirmation email:", err)
			}
		}(*res.Order)
	}
	if res.FreshFailed {
		go func(o db.Order) {
			if err := email.SendPaymentFailed(&o); err != nil {
				log.Println("[Pesapal] failure email:", err)
			}
		}(*res.Order)
	}
}
