package pesapal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// tokens are valid for an hour; cache for 55 minutes to avoid racing expiry
const tokenTTL = 55 * time.Minute

// AccessToken returns a bearer token for the gateway, from cache when one
// is still valid, otherwise via a fresh credential exchange. Failure is
// terminal for the current request; callers do not retry.
func (c *Client) AccessToken() (string, error) {
	c.mu.Lock()
	cached, expiry := c.token, c.tokenExpiry
	c.mu.Unlock()
	if cached != "" && c.Now().Before(expiry) {
		return cached, nil
	}

	if !c.Config.Configured() {
		return "", &AuthError{Reason: "credentials not configured"}
	}

	payload, err := json.Marshal(map[string]string{
		"consumer_key":    c.Config.ConsumerKey,
		"consumer_secret": c.Config.ConsumerSecret,
	})
	if err != nil {
		return "", &AuthError{Reason: err.Error()}
	}

	req, err := http.NewRequest(http.MethodPost, c.Config.BaseURL+"/Auth/RequestToken", bytes.NewReader(payload))
	if err != nil {
		return "", &AuthError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &AuthError{Reason: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Println("[Pesapal] token request failed:", string(body))
		return "", &AuthError{Reason: fmt.Sprintf("token request failed: %d", resp.StatusCode)}
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &AuthError{Reason: "invalid JSON in token response"}
	}
	if data.Token == "" {
		return "", &AuthError{Reason: "no token in response"}
	}

	c.mu.Lock()
	c.token = data.Token
	c.tokenExpiry = c.Now().Add(tokenTTL)
	c.mu.Unlock()

	return data.Token, nil
}
