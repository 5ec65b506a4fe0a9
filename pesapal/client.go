package pesapal

import (
	"net/http"
	"sync"
	"time"
)

// Client talks to the Pesapal v3 REST API. It carries two process-local
// caches: the bearer token and the IPN registration id. The mutex only
// guards cache reads and writes; fetches run unlocked, so concurrent
// cold starts can still duplicate a token fetch or a registration
// attempt, and both are harmless (token re-issuance is cheap, duplicate
// registrations are handled in IPNID).
type Client struct {
	Config Config
	HTTP   *http.Client
	Now    func() time.Time // injectable for tests

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	ipnID       string
	ipnIDExpiry time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		Config: cfg,
		HTTP:   &http.Client{Timeout: 30 * time.Second},
		Now:    time.Now,
	}
}
