package pesapal

import (
	"fmt"
	"os"
	"strings"
)

const (
	sandboxBaseURL = "https://cybqa.pesapal.com/pesapalv3/api"
	liveBaseURL    = "https://pay.pesapal.com/v3/api"
)

type Config struct {
	Environment    string // "sandbox" or "live"
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	AppURL         string // public base URL of this service, no trailing slash
}

func LoadConfig() Config {
	env := os.Getenv("PESAPAL_ENVIRONMENT")
	if env != "live" {
		env = "sandbox"
	}
	baseURL := sandboxBaseURL
	if env == "live" {
		baseURL = liveBaseURL
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	return Config{
		Environment:    env,
		BaseURL:        baseURL,
		ConsumerKey:    os.Getenv("PESAPAL_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("PESAPAL_CONSUMER_SECRET"),
		AppURL:         strings.TrimSuffix(appURL, "/"),
	}
}

// Configured reports whether gateway credentials are present. When they
// are not, checkout runs in development mode and never contacts the
// gateway.
func (c Config) Configured() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// IPNURL is the callback URL we register with the gateway for
// asynchronous payment notifications.
func (c Config) IPNURL() string {
	return c.AppURL + "/api/pesapal/ipn"
}

// CallbackURL is where the gateway redirects the buyer after payment.
func (c Config) CallbackURL(orderID string) string {
	return fmt.Sprintf("%s/checkout/success?orderId=%s&method=pesapal", c.AppURL, orderID)
}
