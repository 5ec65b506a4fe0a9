package pesapal

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"unicode/utf8"
)

type LineItem struct {
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
	Quantity int     `json:"quantity"`
	Details  string  `json:"details"`
	SubTotal float64 `json:"sub_total"`
}

type BillingAddress struct {
	EmailAddress string `json:"email_address"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	CountryCode  string `json:"country_code"`
}

type OrderRequest struct {
	ID             string         `json:"id"` // our order id, echoed back as the merchant reference
	Currency       string         `json:"currency"`
	Amount         float64        `json:"amount"`
	Description    string         `json:"description"`
	CallbackURL    string         `json:"callback_url"`
	NotificationID string         `json:"notification_id"`
	BillingAddress BillingAddress `json:"billing_address"`
	LineItems      []LineItem     `json:"line_items,omitempty"`
}

type OrderResponse struct {
	RedirectURL     string `json:"redirect_url"`
	OrderTrackingID string `json:"order_tracking_id"`
}

// NewLineItem clamps a line to what the gateway accepts: names at 100
// chars, quantity at least 1, unit cost rounded to cents.
func NewLineItem(name string, price float64, quantity int) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	name = truncate(name, 100)
	return LineItem{
		Name:     name,
		UnitCost: Round2(price),
		Quantity: quantity,
		Details:  name,
		SubTotal: Round2(price * float64(quantity)),
	}
}

// SubmitOrder posts one checkout to the gateway and returns the redirect
// target for the buyer plus the gateway's tracking id.
func (c *Client) SubmitOrder(token string, order OrderRequest) (*OrderResponse, error) {
	order.Description = truncate(order.Description, 100)

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}

	log.Printf("[Pesapal] submitting order %s: %v %s, %d line item(s)",
		order.ID, order.Amount, order.Currency, len(order.LineItems))

	req, err := http.NewRequest(http.MethodPost, c.Config.BaseURL+"/Transactions/SubmitOrderRequest", bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Println("[Pesapal] submit order failed:", string(body))
		return nil, &GatewayError{Message: gatewayErrorMessage(body)}
	}

	var data OrderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &GatewayError{Message: "invalid JSON in submit response"}
	}
	if data.RedirectURL == "" || data.OrderTrackingID == "" {
		return nil, &GatewayError{Message: "missing redirect URL or tracking id in response"}
	}

	log.Println("[Pesapal] order submitted:", data.OrderTrackingID)
	return &data, nil
}

// gatewayErrorMessage pulls the gateway's own message out of an error
// body so the caller sees something better than a generic failure. Error
// bodies vary across endpoints; try the known field names in order.
func gatewayErrorMessage(body []byte) string {
	var data map[string]any
	if json.Unmarshal(body, &data) == nil {
		for _, key := range []string{"error_description", "message", "error"} {
			if s, ok := data[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if len(body) > 0 {
		return truncate(string(body), 300)
	}
	return "order submission failed"
}

// truncate cuts s to at most n bytes without splitting a rune; the
// gateway rejects invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
