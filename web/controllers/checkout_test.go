package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artstore/pesapal"
	"artstore/web/db"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}

	db.DB = gdb
	db.Sync()
}

// setupRouter wires the payment routes with a stub auth layer that
// injects the given user, the same shape the JWT middleware produces.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user := db.User{Email: "buyer@example.com", UUID: "test-user", Name: "Jane Buyer", Role: "customer"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.POST("/checkout", func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}, Checkout)
	r.POST("/api/pesapal/ipn", PesapalIPN)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validCheckoutBody = `{
	"cartItems": [{"artListingId": 1, "title": "Sunset Over Lamu", "price": 50, "quantity": 2}],
	"shippingInfo": {"name": "Jane Buyer", "email": "jane@example.com", "phone": "+254700000000",
		"address": "123 Gallery Lane", "city": "Nairobi", "country": "Kenya"},
	"paymentMethod": "card"
}`

func TestCheckoutValidation(t *testing.T) {
	setupDB(t)
	r := setupRouter(t)
	SetGateway(pesapal.NewClient(pesapal.Config{}))

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "empty cart",
			body:    `{"cartItems": [], "shippingInfo": {"name": "Jane Buyer", "email": "jane@example.com", "address": "123 Gallery Lane", "city": "Nairobi", "country": "Kenya"}}`,
			wantErr: "Cart is empty",
		},
		{
			name:    "zero quantity names the line",
			body:    `{"cartItems": [{"artListingId": 1, "price": 50, "quantity": 0}], "shippingInfo": {"name": "Jane Buyer", "email": "jane@example.com", "address": "123 Gallery Lane", "city": "Nairobi", "country": "Kenya"}}`,
			wantErr: "cart item 1",
		},
		{
			name:    "bad email",
			body:    `{"cartItems": [{"artListingId": 1, "price": 50, "quantity": 1}], "shippingInfo": {"name": "Jane Buyer", "email": "not-an-email", "address": "123 Gallery Lane", "city": "Nairobi", "country": "Kenya"}}`,
			wantErr: "Valid email is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/checkout", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %s", tc.wantErr, w.Body.String())
			}
		})
	}

	// nothing should have been persisted
	var count int64
	db.DB.Model(&db.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected checkouts persisted %d orders", count)
	}
}

func TestCheckoutDevelopmentMode(t *testing.T) {
	setupDB(t)
	r := setupRouter(t)

	// no credentials: the order is persisted but the gateway is never called
	SetGateway(pesapal.NewClient(pesapal.Config{AppURL: "http://localhost:8080"}))

	w := postJSON(t, r, "/checkout", validCheckoutBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderID       string `json:"orderId"`
			OrderNumber   string `json:"orderNumber"`
			IsDevelopment bool   `json:"isDevelopment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Data.IsDevelopment {
		t.Error("expected development mode response")
	}

	var order db.Order
	if err := db.DB.First(&order, "id = ?", resp.Data.OrderID).Error; err != nil {
		t.Fatal(err)
	}
	if order.PaymentStatus != pesapal.PaymentPending || order.Status != pesapal.OrderPending {
		t.Errorf("expected PENDING/PENDING, got %s/%s", order.PaymentStatus, order.Status)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("unexpected order number %q", order.OrderNumber)
	}
}

func TestCheckoutSubmitsToGateway(t *testing.T) {
	setupDB(t)
	r := setupRouter(t)

	var submitted pesapal.OrderRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/Auth/RequestToken", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"token": "test-token"}`)
	})
	mux.HandleFunc("/URLSetup/GetIPNList", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"url": "http://shop.example.com/api/pesapal/ipn", "ipn_id": "ipn-1"}]`)
	})
	mux.HandleFunc("/Transactions/SubmitOrderRequest", func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if err := json.NewDecoder(req.Body).Decode(&submitted); err != nil {
			t.Error(err)
		}
		fmt.Fprint(w, `{"redirect_url": "https://pay.example.com/iframe/abc", "order_tracking_id": "track-e2e"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	SetGateway(pesapal.NewClient(pesapal.Config{
		Environment:    "sandbox",
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		AppURL:         "http://shop.example.com",
	}))

	w := postJSON(t, r, "/checkout", validCheckoutBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			OrderID        string `json:"orderId"`
			PesapalOrderID string `json:"pesapalOrderId"`
			RedirectURL    string `json:"redirectUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.PesapalOrderID != "track-e2e" {
		t.Errorf("expected tracking id track-e2e, got %q", resp.Data.PesapalOrderID)
	}
	if resp.Data.RedirectURL != "https://pay.example.com/iframe/abc" {
		t.Errorf("unexpected redirect url %q", resp.Data.RedirectURL)
	}

	// 2 x 50 subtotal, 25 shipping, 8% tax, card stays in USD
	if submitted.Amount != 133.00 || submitted.Currency != "USD" {
		t.Errorf("expected 133.00 USD, got %v %s", submitted.Amount, submitted.Currency)
	}
	if len(submitted.LineItems) != 3 {
		t.Fatalf("expected cart + shipping + tax line items, got %d", len(submitted.LineItems))
	}
	if submitted.LineItems[0].Name != "Sunset Over Lamu" || submitted.LineItems[0].SubTotal != 100.00 {
		t.Errorf("unexpected first line item %+v", submitted.LineItems[0])
	}
	if submitted.LineItems[1].Name != "Shipping" || submitted.LineItems[1].UnitCost != 25.00 {
		t.Errorf("unexpected shipping line %+v", submitted.LineItems[1])
	}
	if submitted.LineItems[2].Name != "Tax" || submitted.LineItems[2].UnitCost != 8.00 {
		t.Errorf("unexpected tax line %+v", submitted.LineItems[2])
	}
	if submitted.NotificationID != "ipn-1" {
		t.Errorf("expected registered IPN id, got %q", submitted.NotificationID)
	}
	if submitted.BillingAddress.EmailAddress != "jane@example.com" {
		t.Errorf("unexpected billing email %q", submitted.BillingAddress.EmailAddress)
	}
	if submitted.ID != resp.Data.OrderID {
		t.Errorf("merchant reference %q does not match order id %q", submitted.ID, resp.Data.OrderID)
	}

	var order db.Order
	if err := db.DB.Preload("Items").First(&order, "id = ?", resp.Data.OrderID).Error; err != nil {
		t.Fatal(err)
	}
	if order.Subtotal != 100.00 || order.ShippingCost != 25.00 || order.Tax != 8.00 || order.Total != 133.00 {
		t.Errorf("unexpected totals: %v/%v/%v/%v", order.Subtotal, order.ShippingCost, order.Tax, order.Total)
	}
	if order.PesapalOrderID != "track-e2e" {
		t.Errorf("tracking id not stored, got %q", order.PesapalOrderID)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("unexpected order items %+v", order.Items)
	}
}

func TestPesapalIPNEndToEnd(t *testing.T) {
	setupDB(t)
	r := setupRouter(t)

	order := db.Order{
		ID:             "dddddddd-0000-0000-0000-00000000ipn1",
		OrderNumber:    "ORD-1700000000-IPNTEST01",
		PesapalOrderID: "track-ipn-1",
		PaymentStatus:  pesapal.PaymentPending,
		Status:         pesapal.OrderPending,
		Total:          133.00,
		ShippingEmail:  "jane@example.com",
	}
	if err := db.DB.Create(&order).Error; err != nil {
		t.Fatal(err)
	}

	ipnBody := `{
		"pesapal_transaction_tracking_id": "track-ipn-1",
		"pesapal_merchant_reference": "ORD-1700000000-IPNTEST01",
		"pesapal_notification_type": "CHANGE",
		"status": "POSTED",
		"payment_method": "mpesa",
		"transaction_amount": 17290,
		"currency": "KES"
	}`

	w := postJSON(t, r, "/api/pesapal/ipn", ipnBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"paymentStatus":"COMPLETED"`) ||
		!strings.Contains(w.Body.String(), `"orderStatus":"CONFIRMED"`) {
		t.Errorf("unexpected IPN response: %s", w.Body.String())
	}

	// redelivery is acknowledged and leaves the order settled
	w = postJSON(t, r, "/api/pesapal/ipn", ipnBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on redelivery, got %d", w.Code)
	}

	var stored db.Order
	if err := db.DB.First(&stored, "id = ?", order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.PaymentStatus != pesapal.PaymentCompleted || stored.Status != pesapal.OrderConfirmed {
		t.Errorf("expected COMPLETED/CONFIRMED, got %s/%s", stored.PaymentStatus, stored.Status)
	}
	if stored.PaymentMethod != "mpesa" {
		t.Errorf("expected payment method mpesa, got %q", stored.PaymentMethod)
	}
}

func TestPesapalIPNErrors(t *testing.T) {
	setupDB(t)
	r := setupRouter(t)

	w := postJSON(t, r, "/api/pesapal/ipn", `{"status": "POSTED"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", w.Code)
	}

	w = postJSON(t, r, "/api/pesapal/ipn", `{
		"pesapal_transaction_tracking_id": "no-such-tracking",
		"pesapal_merchant_reference": "ORD-NOPE",
		"status": "POSTED"
	}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", w.Code)
	}
}
