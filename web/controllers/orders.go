package controllers

import (
	"log"
	"net/http"
	"strings"

	"artstore/pesapal"
	"artstore/web/db"
	"artstore/web/payments"

	"github.com/gin-gonic/gin"
)

// PaymentStatus is the synchronous poll variant of the IPN handler: it
// asks the gateway directly and applies the result through the same
// reconciliation routine, so the two paths can never interpret a status
// differently. Used when the buyer lands on the success page before the
// asynchronous notification arrives.
func PaymentStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	var order db.Order
	if err := db.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		return
	}

	trackingID := c.Query("trackingId")
	if trackingID == "" {
		trackingID = order.PesapalOrderID
	}

	gw := Gateway()
	if !gw.Config.Configured() || trackingID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"order":         order,
			"paymentStatus": order.PaymentStatus,
			"isDevelopment": true,
		}})
		return
	}

	token, err := gw.AccessToken()
	if err != nil {
		log.Println("[Pesapal] token error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	status, err := gw.TransactionStatus(token, trackingID)
	if err != nil {
		log.Println("[Pesapal] status query error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check status"})
		return
	}

	res, err := payments.Apply(&order, payments.Notification{
		TrackingID:        trackingID,
		MerchantReference: order.OrderNumber,
		NotificationType:  "STATUSPOLL",
		Status:            status,
	})
	if err != nil {
		log.Println("[Pesapal] failed to update order:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order"})
		return
	}

	dispatchPaymentEffects(res)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"order":         res.Order,
		"paymentStatus": res.PaymentStatus,
		"orderStatus":   res.OrderStatus,
		"pesapalStatus": status,
	}})
}

// MyOrders lists the caller's own orders, newest first.
func MyOrders(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var orders []db.Order
	err := db.DB.Preload("Items").
		Where("user_id = ?", user.(db.User).ID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders}})
}

func ListOrders(c *gin.Context) {
	q := db.DB.Preload("Items").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []db.Order
	if err := q.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders}})
}

func GetOrder(c *gin.Context) {
	var order db.Order
	if err := db.DB.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"order": order}})
}

// statuses an admin may set by hand; the payment pair stays with the
// gateway reconciliation
var fulfilmentStatuses = map[string]bool{
	pesapal.OrderPending:    true,
	pesapal.OrderConfirmed:  true,
	pesapal.OrderProcessing: true,
	pesapal.OrderShipped:    true,
	pesapal.OrderDelivered:  true,
	pesapal.OrderCancelled:  true,
}

// UpdateOrderStatus advances an order through fulfilment. Admin only.
func UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if !fulfilmentStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status"})
		return
	}

	var order db.Order
	if err := db.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		return
	}

	order.Status = status
	if err := db.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order status"})
		return
	}

	log.Printf("[Orders] %s set to %s", order.OrderNumber, status)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"order": order}})
}
