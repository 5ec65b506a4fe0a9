package pesapal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TransactionStatus asks the gateway for the current state of one payment
// attempt. Used when the asynchronous notification has not arrived yet,
// e.g. the buyer is already back on the success page. The returned string
// is the gateway's vocabulary; run it through MapStatus.
func (c *Client) TransactionStatus(token, trackingID string) (string, error) {
	reqURL := c.Config.BaseURL + "/Transactions/GetTransactionStatus?orderTrackingId=" + url.QueryEscape(trackingID)

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &GatewayError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &GatewayError{Message: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{Message: fmt.Sprintf("status query failed: %d", resp.StatusCode)}
	}

	var data struct {
		PaymentStatus            string `json:"payment_status"`
		PaymentStatusDescription string `json:"payment_status_description"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &GatewayError{Message: "invalid JSON in status response"}
	}

	if data.PaymentStatus != "" {
		return data.PaymentStatus, nil
	}
	return data.PaymentStatusDescription, nil
}
