package pesapal

// AuthError means the credential exchange with the gateway failed, or no
// credentials are configured at all. Operator-correctable, never retried
// within a request.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "pesapal auth: " + e.Reason
}

// WebhookError means the IPN URL could not be registered and no existing
// registration was found to fall back on.
type WebhookError struct {
	Reason string
}

func (e *WebhookError) Error() string {
	return "pesapal ipn: " + e.Reason
}

// GatewayError carries the gateway's own error text when a call returns a
// non-success status or an unparseable body. The message is safe to relay
// to the caller.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return "pesapal: " + e.Message
}
