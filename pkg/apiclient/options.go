package apiclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Clock abstracts time.Now so tests can pin request timestamps.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}

type Option func(*Client)

// WithHTTPClient makes every call share httpClient instead of building a fresh client
// per call. The caller owns its timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClock(clock Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithNonceGenerator replaces the UUIDv4 nonce source.
func WithNonceGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newNonce = fn
		}
	}
}
