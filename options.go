package statuswatch

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// watcherConfig holds mutable state during Watcher construction.
type watcherConfig struct {
	target     *Target
	interval   time.Duration
	notifier   Notifier
	logger     *slog.Logger
	httpClient *http.Client
	callbacks  []func(Observation)
}

// Option is a function that configures a [Watcher] during construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails.
//
// Built-in options: [WithTarget], [WithNotifier], [WithInterval],
// [WithLogger], [WithHTTPClient], [WithObservationCallback].
type Option func(*watcherConfig) error

// WithTarget sets the page to watch. Required.
//
// Only one target is watched; a later WithTarget replaces an earlier one.
func WithTarget(t Target) Option {
	return func(cfg *watcherConfig) error {
		if t.name == "" || t.extractor == nil {
			return errors.New("target must be created with NewTarget")
		}
		cfg.target = &t
		return nil
	}
}

// WithNotifier sets where the transition alert is delivered. Required.
//
// Example:
//
//	w, err := statuswatch.New(
//	    statuswatch.WithTarget(target),
//	    statuswatch.WithNotifier(wecom.New(webhookURL)),
//	)
func WithNotifier(n Notifier) Option {
	return func(cfg *watcherConfig) error {
		if n == nil {
			return errors.New("notifier cannot be nil")
		}
		cfg.notifier = n
		return nil
	}
}

// WithInterval sets the wait between the end of one poll cycle and the
// start of the next. Defaults to 6 seconds.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Watcher.
//
// If not specified, [slog.Default] is used. Returns an error if the logger
// is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *watcherConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for page fetches. The target's
// timeout is still applied per request.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *watcherConfig) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = hc
		return nil
	}
}

// WithObservationCallback registers a function called after every poll
// cycle, successful or not, before the change detector runs.
//
// Callbacks run synchronously on the poll goroutine in registration order
// and should return quickly. Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithObservationCallback(cb func(Observation)) Option {
	return func(cfg *watcherConfig) error {
		if cb == nil {
			return nil
		}
		cfg.callbacks = append(cfg.callbacks, cb)
		return nil
	}
}
