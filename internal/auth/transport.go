// Package auth provides RoundTrippers that inject Authorization headers
// into outbound requests, so clients never handle raw credentials after
// construction.
package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// Transport injects a fixed Authorization header into every request it
// carries. The header value is computed once at construction.
type Transport struct {
	base   http.RoundTripper
	header string
}

// NewBasic builds a Transport carrying HTTP basic auth for the given
// account.
func NewBasic(base http.RoundTripper, username, secret string) (*Transport, error) {
	if username == "" || secret == "" {
		return nil, fmt.Errorf("auth: username and secret required")
	}
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + secret))
	return newTransport(base, "Basic "+token), nil
}

// NewBearer builds a Transport carrying a bearer token.
func NewBearer(base http.RoundTripper, token string) (*Transport, error) {
	if token == "" {
		return nil, fmt.Errorf("auth: token required")
	}
	return newTransport(base, "Bearer "+token), nil
}

func newTransport(base http.RoundTripper, header string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, header: header}
}

// RoundTrip implements http.RoundTripper. The request is cloned before the
// headers are set, per the RoundTripper contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.header)
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", "application/json")
	}
	return t.base.RoundTrip(clone)
}
