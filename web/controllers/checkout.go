package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"artstore/pesapal"
	"artstore/utils"
	"artstore/web/db"

	"github.com/gin-gonic/gin"
)

const (
	flatShippingCost = 25.00
	taxRate          = 0.08
)

// process-local gateway client so the token and IPN id caches survive
// across requests
var gateway *pesapal.Client

func Gateway() *pesapal.Client {
	if gateway == nil {
		gateway = pesapal.NewClient(pesapal.LoadConfig())
	}
	return gateway
}

// SetGateway swaps the client, for tests.
func SetGateway(c *pesapal.Client) {
	gateway = c
}

type cartItemInput struct {
	ArtListingID uint    `json:"artListingId"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

type shippingInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type checkoutInput struct {
	CartItems     []cartItemInput `json:"cartItems"`
	ShippingInfo  shippingInput   `json:"shippingInfo"`
	PhoneNumber   string          `json:"phoneNumber"`
	PaymentMethod string          `json:"paymentMethod"`
}

// pos is zero-based; messages name the 1-based position so the UI can
// point at the offending line
func validateCartItem(pos int, item cartItemInput) error {
	if item.ArtListingID == 0 {
		return fmt.Errorf("cart item %d: missing listing id", pos+1)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("cart item %d: invalid quantity", pos+1)
	}
	if item.Price < 0 {
		return fmt.Errorf("cart item %d: invalid price", pos+1)
	}
	return nil
}

func validateShipping(s shippingInput) error {
	var errs []string

	if len(strings.TrimSpace(s.Name)) < 2 {
		errs = append(errs, "Valid name is required")
	}
	if !strings.Contains(s.Email, "@") {
		errs = append(errs, "Valid email is required")
	}
	if len(strings.TrimSpace(s.Address)) < 5 {
		errs = append(errs, "Valid address is required")
	}
	if len(strings.TrimSpace(s.City)) < 2 {
		errs = append(errs, "Valid city is required")
	}
	if len(strings.TrimSpace(s.Country)) < 2 {
		errs = append(errs, "Valid country is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Checkout validates the cart and shipping form, persists the order, and
// submits it to the payment gateway. Validation happens before any
// network or storage side effect; the order row is written before the
// gateway call so a failed submission still leaves a PENDING record.
func Checkout(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}
	userinfo := user.(db.User)

	var body checkoutInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if len(body.CartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cart is empty"})
		return
	}
	for i, item := range body.CartItems {
		if err := validateCartItem(i, item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
	}
	if err := validateShipping(body.ShippingInfo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// each line rounded before summing
	subtotal := 0.0
	for _, item := range body.CartItems {
		subtotal += pesapal.Round2(item.Price * float64(item.Quantity))
	}
	subtotal = pesapal.Round2(subtotal)
	shipping := pesapal.Round2(flatShippingCost)
	tax := pesapal.Round2(subtotal * taxRate)
	total := pesapal.Round2(subtotal + shipping + tax)

	phone := body.PhoneNumber
	if phone == "" {
		phone = body.ShippingInfo.Phone
	}

	order := db.Order{
		ID:          utils.GenerateUUID(),
		UserID:      userinfo.ID,
		OrderNumber: utils.GenerateOrderNumber(),

		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        total,

		ShippingName:    strings.TrimSpace(body.ShippingInfo.Name),
		ShippingEmail:   strings.ToLower(strings.TrimSpace(body.ShippingInfo.Email)),
		ShippingPhone:   phone,
		ShippingAddress: strings.TrimSpace(body.ShippingInfo.Address),
		ShippingCity:    strings.TrimSpace(body.ShippingInfo.City),
		ShippingCountry: strings.TrimSpace(body.ShippingInfo.Country),

		PaymentMethod: "pesapal",
		PaymentStatus: pesapal.PaymentPending,
		Status:        pesapal.OrderPending,
	}
	for _, item := range body.CartItems {
		title := item.Title
		if title == "" {
			title = "Artwork"
		}
		order.Items = append(order.Items, db.OrderItem{
			ArtListingID: item.ArtListingID,
			Title:        title,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}

	if err := db.DB.Create(&order).Error; err != nil {
		log.Println("[Pesapal] failed to create order:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create order"})
		return
	}

	gw := Gateway()

	if !gw.Config.Configured() {
		// no gateway credentials: let the UI flow run without a redirect
		log.Println("[Pesapal] credentials not configured, development mode")
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"orderId":       order.ID,
			"orderNumber":   order.OrderNumber,
			"paymentMethod": "pesapal",
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

	ipnID, err := gw.IPNID(token)
	if err != nil {
		log.Println("[Pesapal] IPN error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	rate, _ := db.ActiveExchangeRate()
	amount, currency := pesapal.ConvertForChannel(total, body.PaymentMethod, rate)

	lineItems := make([]pesapal.LineItem, 0, len(order.Items)+2)
	for _, item := range order.Items {
		lineItems = append(lineItems, pesapal.NewLineItem(item.Title, item.Price, item.Quantity))
	}
	lineItems = append(lineItems, pesapal.NewLineItem("Shipping", shipping, 1))
	if tax > 0 {
		lineItems = append(lineItems, pesapal.NewLineItem("Tax", tax, 1))
	}

	firstName, lastName := splitName(order.ShippingName)

	resp, err := gw.SubmitOrder(token, pesapal.OrderRequest{
		ID:             order.ID,
		Currency:       currency,
		Amount:         amount,
		Description:    fmt.Sprintf("ArtStore order - %d item(s)", len(order.Items)),
		CallbackURL:    gw.Config.CallbackURL(order.ID),
		NotificationID: ipnID,
		BillingAddress: pesapal.BillingAddress{
			EmailAddress: order.ShippingEmail,
			FirstName:    firstName,
			LastName:     lastName,
			PhoneNumber:  phone,
			CountryCode:  "US",
		},
		LineItems: lineItems,
	})
	if err != nil {
		log.Println("[Pesapal] submit error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	// the gateway-side transaction exists now; losing the tracking id is
	// recoverable via the status poll, so log and keep going
	if err := db.DB.Model(&db.Order{}).Where("id = ?", order.ID).
		Update("pesapal_order_id", resp.OrderTrackingID).Error; err != nil {
		log.Println("[Pesapal] failed to store tracking id:", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"orderId":        order.ID,
		"orderNumber":    order.OrderNumber,
		"paymentMethod":  "pesapal",
		"pesapalOrderId": resp.OrderTrackingID,
		"redirectUrl":    resp.RedirectURL,
	}})
}
