package statuswatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/statuswatch/internal/fetcher"
)

const defaultInterval = 6 * time.Second

// Watcher polls a single [Target] and sends one alert when its status changes.
//
// Watcher is a one-shot detector: [Watcher.Run] returns as soon as the first
// transition has been alerted. It is created using [New] with functional
// options.
//
// The typical lifecycle is:
//
//	w, err := statuswatch.New(
//	    statuswatch.WithTarget(target),
//	    statuswatch.WithNotifier(wecom.New(webhookURL)),
//	)
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	result, err := w.Run(ctx) // blocks until a transition or cancellation
type Watcher struct {
	target    Target
	interval  time.Duration
	notifier  Notifier
	logger    *slog.Logger
	client    *fetcher.Client
	callbacks []func(Observation)

	// now is replaced in tests.
	now func() time.Time
}

// Result summarises a finished [Watcher.Run].
type Result struct {
	// Transition is the detected change, or nil if Run ended without one.
	Transition *Transition

	// Alerted reports whether the notifier confirmed the alert.
	Alerted bool

	// AlertErr is the notifier error when the alert failed.
	AlertErr error

	// Polls is the number of poll cycles performed, including failed ones.
	Polls int
}

// New creates a [Watcher] with the given options.
//
// [WithTarget] and [WithNotifier] are required. Other options have defaults:
//   - Interval: 6 seconds
//   - Logger: slog.Default()
//   - HTTP client: a keep-alive client without a global timeout
func New(opts ...Option) (*Watcher, error) {
	cfg := &watcherConfig{
		interval: defaultInterval,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.target == nil {
		return nil, errors.New("a target is required")
	}
	if cfg.notifier == nil {
		return nil, errors.New("a notifier is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		target:    *cfg.target,
		interval:  cfg.interval,
		notifier:  cfg.notifier,
		logger:    logger,
		client:    fetcher.NewClient(cfg.httpClient),
		callbacks: cfg.callbacks,
		now:       time.Now,
	}, nil
}

// Target returns the watched target.
func (w *Watcher) Target() Target {
	return w.target
}

// Interval returns the wait between poll cycles.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Run polls the target until its status changes, then sends one alert and
// returns.
//
// Each cycle fetches the page, extracts the status, logs it, and feeds it to a
// [Detector]. The first successful extraction only seeds the detector. A
// failed fetch or a missing element is logged and skipped without touching
// the detector; the next cycle is the only recovery.
//
// Run returns with a nil error when:
//   - a transition was detected (Result.Transition is set; the alert outcome
//     is in Result.Alerted and Result.AlertErr)
//   - ctx was cancelled (Result.Transition is nil)
//
// Run returns an error only when the extractor panics, which means the
// extractor itself is broken and further polling is pointless.
func (w *Watcher) Run(ctx context.Context) (Result, error) {
	w.logger.Info("watching server status",
		"target", w.target.name,
		"url", w.target.url,
		"interval", w.interval.String(),
	)
	defer w.client.Close()

	var (
		detector Detector
		result   Result
	)

	for {
		if ctx.Err() != nil {
			w.logger.Info("watch stopped", "polls", result.Polls)
			return result, nil
		}

		obs, err := w.poll(ctx)
		result.Polls++
		if err != nil {
			return result, err
		}
		w.report(ctx, obs)

		if obs.OK() {
			if t, changed := detector.Observe(obs.Status, obs.CheckedAt); changed {
				result.Transition = &t
				w.logger.Info("status changed",
					"target", w.target.name,
					"from", t.From,
					"to", t.To,
				)
				result.AlertErr = w.alert(ctx, t)
				result.Alerted = result.AlertErr == nil
				return result, nil
			}
		}

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("watch stopped", "polls", result.Polls)
			return result, nil
		case <-timer.C:
		}
	}
}

// SendTestAlert sends [TestAlertMessage] through the notifier so that the
// webhook can be verified before monitoring starts.
func (w *Watcher) SendTestAlert(ctx context.Context) error {
	w.logger.Info("sending test alert")
	if err := w.notifier.Notify(ctx, TestAlertMessage); err != nil {
		w.logger.Error("test alert failed", "error", err)
		return fmt.Errorf("test alert: %w", err)
	}
	w.logger.Info("test alert delivered")
	return nil
}

// poll runs one fetch and extract cycle. The returned error is non-nil only
// for an extractor panic.
func (w *Watcher) poll(ctx context.Context) (Observation, error) {
	obs := Observation{
		Target:    w.target.name,
		URL:       w.target.url,
		CheckedAt: w.now(),
	}

	resp := w.client.Fetch(ctx, w.target.url, w.target.headers, w.target.timeout)
	obs.Latency = resp.Latency
	obs.StatusCode = resp.StatusCode
	if resp.Error != nil {
		obs.Err = resp.Error
		return obs, nil
	}

	status, err := w.safeExtract(resp.Body)
	var pe *panicError
	if errors.As(err, &pe) {
		return obs, err
	}
	obs.Status = status
	obs.Err = err
	return obs, nil
}

// report logs an observation and hands it to the registered callbacks.
func (w *Watcher) report(ctx context.Context, obs Observation) {
	switch {
	case obs.OK():
		w.logger.Info("status checked",
			"target", obs.Target,
			"status", obs.Status,
			"checked_at", obs.CheckedAt.Format(alertTimeLayout),
		)
	case errors.Is(obs.Err, ErrNoMatch), errors.Is(obs.Err, ErrEmptyLabel):
		w.logger.Warn("status element not found, the query may be wrong or the page layout changed",
			"target", obs.Target,
			"error", obs.Err.Error(),
		)
	case ctx.Err() != nil:
		// cancelled mid-request; Run logs the stop
	default:
		w.logger.Error("failed to fetch server status",
			"target", obs.Target,
			"url", obs.URL,
			"status_code", obs.StatusCode,
			"error", obs.Err.Error(),
		)
	}

	for _, cb := range w.callbacks {
		invokeCallbackSafe(cb, obs, w.logger)
	}
}

// alert formats and delivers the alert for t, exactly once.
func (w *Watcher) alert(ctx context.Context, t Transition) error {
	msg := FormatAlert(w.target.name, t)
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.logger.Error("alert delivery failed", "error", err)
		return err
	}
	w.logger.Info("alert delivered")
	return nil
}

// panicError marks an extractor panic.
type panicError struct {
	correlationID string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("extractor panic (correlation_id: %s)", e.correlationID)
}

// safeExtract calls the extractor with panic recovery.
// A panic is logged with its stack trace and a correlation ID, and reported
// as a *panicError.
func (w *Watcher) safeExtract(body []byte) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			w.logger.Error("extractor panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			status = ""
			err = &panicError{correlationID: correlationID}
		}
	}()
	return w.target.extractor(body)
}

// invokeCallbackSafe calls an observation callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Observation), obs Observation, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("observation callback panicked",
				"panic", r,
				"target", obs.Target,
			)
		}
	}()
	cb(obs)
}
