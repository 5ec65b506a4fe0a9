package pesapal

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// the registration itself is long-lived on the gateway side; this only
// bounds how long we go without re-checking
const ipnCacheTTL = 24 * time.Hour

type ipnEntry struct {
	URL   string `json:"url"`
	IPNID string `json:"ipn_id"`
}

// IPNID returns the gateway's id for our notification URL, registering
// the URL if the gateway does not know it yet. The gateway has no
// register-or-get call, so this builds one out of list + create:
//
//  1. return the cached id if it is still fresh
//  2. scan the registration list for our URL (normalized match)
//  3. otherwise register; if registration reports a duplicate, a
//     concurrent registration won and we take the existing id from the list
func (c *Client) IPNID(token string) (string, error) {
	c.mu.Lock()
	cached, expiry := c.ipnID, c.ipnIDExpiry
	c.mu.Unlock()
	if cached != "" && c.Now().Before(expiry) {
		return cached, nil
	}

	ipnURL := c.Config.IPNURL()

	if id, ok := c.findRegisteredIPN(token, ipnURL); ok {
		c.cacheIPNID(id)
		return id, nil
	}

	log.Println("[Pesapal] registering IPN URL:", ipnURL)

	payload, err := json.Marshal(map[string]string{
		"url":                   ipnURL,
		"ipn_notification_type": "POST",
	})
	if err != nil {
		return "", &WebhookError{Reason: err.Error()}
	}

	req, err := http.NewRequest(http.MethodPost, c.Config.BaseURL+"/URLSetup/RegisterIPN", bytes.NewReader(payload))
	if err != nil {
		return "", &WebhookError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &WebhookError{Reason: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Println("[Pesapal] IPN registration failed:", string(body))
		// the gateway reports duplicates as free text, not a structured code
		if strings.Contains(strings.ToLower(string(body)), "duplicate") {
			if id, ok := c.findRegisteredIPN(token, ipnURL); ok {
				c.cacheIPNID(id)
				return id, nil
			}
		}
		return "", &WebhookError{Reason: "failed to register IPN URL"}
	}

	var data struct {
		IPNID string `json:"ipn_id"`
	}
	if err := json.Unmarshal(body, &data); err != nil || data.IPNID == "" {
		return "", &WebhookError{Reason: "invalid IPN registration response"}
	}

	c.cacheIPNID(data.IPNID)
	log.Println("[Pesapal] IPN registered:", data.IPNID)
	return data.IPNID, nil
}

func (c *Client) cacheIPNID(id string) {
	c.mu.Lock()
	c.ipnID = id
	c.ipnIDExpiry = c.Now().Add(ipnCacheTTL)
	c.mu.Unlock()
}

func (c *Client) findRegisteredIPN(token, ipnURL string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, c.Config.BaseURL+"/URLSetup/GetIPNList", nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, _ := io.ReadAll(resp.Body)
	for _, entry := range parseIPNList(body) {
		if entry.IPNID != "" && matchesIPNURL(entry.URL, ipnURL) {
			return entry.IPNID, true
		}
	}
	return "", false
}

// the list endpoint has returned both a bare array and a wrapped object
func parseIPNList(body []byte) []ipnEntry {
	var list []ipnEntry
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}
	var wrapped struct {
		IPNList []ipnEntry `json:"ipn_list"`
		IPNs    []ipnEntry `json:"ipns"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if len(wrapped.IPNList) > 0 {
			return wrapped.IPNList
		}
		return wrapped.IPNs
	}
	return nil
}

// matchesIPNURL compares registration URLs loosely: a trailing slash or a
// http/https substitution still counts as ours. String comparison after
// normalization, nothing cleverer.
func matchesIPNURL(registered, want string) bool {
	if registered == want || registered == want+"/" {
		return true
	}
	return registered == strings.Replace(want, "http://", "https://", 1)
}
