// Package llm provides clients for the external generative-AI providers.
//
// There is no official Go SDK for either provider in use, so both
// clients speak the providers' REST APIs directly: an OpenAI-compatible
// chat-completions endpoint for the basic tier and the Gemini
// generateContent endpoint for the pro tier.
package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Provider generates text from a prompt. The call blocks until the
// provider responds or ctx is done; callers bound it with a deadline.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ErrUpstream wraps any provider-side failure: transport errors,
// non-2xx statuses, timeouts, and unusable response bodies. Callers
// treat all of these the same way and never charge quota for them.
var ErrUpstream = errors.New("upstream provider error")

// Client timeouts. The total request timeout is enforced per-call via
// context deadlines, not here, so a slow generation is not cut off by
// the transport.
const (
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 30 * time.Second
)

// newHTTPClient creates an HTTP client configured for provider calls.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
