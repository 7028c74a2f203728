package statuswatch

import (
	"errors"
	"net/http"
	"time"
)

// targetConfig holds mutable state during Target construction.
type targetConfig struct {
	headers map[string]string
	timeout time.Duration
}

// TargetOption is a function that configures a [Target] during construction.
//
// Built-in options: [WithHeaders], [WithUserAgent], [WithTimeout].
type TargetOption func(*targetConfig) error

// WithHeaders adds custom HTTP headers to page requests.
//
// Headers are specified as key-value pairs. Keys are canonicalised, so
// "user-agent" replaces the default User-Agent.
//
// Example:
//
//	statuswatch.WithHeaders("Accept-Language", "en-US", "Cache-Control", "no-cache")
//
// Returns an error if an odd number of arguments is provided or a key is empty.
func WithHeaders(keyValues ...string) TargetOption {
	return func(cfg *targetConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("headers must be provided as key-value pairs")
		}
		for i := 0; i < len(keyValues); i += 2 {
			key := keyValues[i]
			if key == "" {
				return errors.New("header key cannot be empty")
			}
			cfg.headers[http.CanonicalHeaderKey(key)] = keyValues[i+1]
		}
		return nil
	}
}

// WithUserAgent overrides the User-Agent header. Defaults to [DefaultUserAgent].
func WithUserAgent(ua string) TargetOption {
	return func(cfg *targetConfig) error {
		if ua == "" {
			return errors.New("user agent cannot be empty")
		}
		cfg.headers["User-Agent"] = ua
		return nil
	}
}

// WithTimeout sets the HTTP request timeout for page fetches.
//
// Defaults to 10 seconds if not specified. Returns an error if the duration
// is zero or negative.
func WithTimeout(d time.Duration) TargetOption {
	return func(cfg *targetConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}
