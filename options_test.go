package statuswatch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var nopNotifier = NotifierFunc(func(ctx context.Context, message string) error { return nil })

func mustTarget(t *testing.T, url string, extractor StatusExtractor) Target {
	t.Helper()
	target, err := NewTarget("Sunstorm", url, extractor)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	return target
}

func TestNew_Defaults(t *testing.T) {
	target := mustTarget(t, "https://example.com", staticExtractor)

	w, err := New(WithTarget(target), WithNotifier(nopNotifier))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w.Interval() != 6*time.Second {
		t.Errorf("Interval() = %v, want 6s", w.Interval())
	}
	if w.Target().Name() != "Sunstorm" {
		t.Errorf("Target().Name() = %q, want Sunstorm", w.Target().Name())
	}
	if w.logger != slog.Default() {
		t.Error("logger should default to slog.Default()")
	}
}

func TestNew_RequiresTargetAndNotifier(t *testing.T) {
	target := mustTarget(t, "https://example.com", staticExtractor)

	if _, err := New(WithNotifier(nopNotifier)); err == nil {
		t.Error("New() without target: expected error, got nil")
	}
	if _, err := New(WithTarget(target)); err == nil {
		t.Error("New() without notifier: expected error, got nil")
	}
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero-value target", WithTarget(Target{})},
		{"nil notifier", WithNotifier(nil)},
		{"zero interval", WithInterval(0)},
		{"negative interval", WithInterval(-time.Second)},
		{"nil logger", WithLogger(nil)},
		{"nil http client", WithHTTPClient(nil)},
	}

	target := mustTarget(t, "https://example.com", staticExtractor)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithTarget(target), WithNotifier(nopNotifier), tt.opt)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOptions_Applied(t *testing.T) {
	target := mustTarget(t, "https://example.com", staticExtractor)
	logger := discardLogger()

	w, err := New(
		WithTarget(target),
		WithNotifier(nopNotifier),
		WithInterval(30*time.Second),
		WithLogger(logger),
		WithHTTPClient(&http.Client{}),
		WithObservationCallback(func(Observation) {}),
		WithObservationCallback(nil),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w.Interval() != 30*time.Second {
		t.Errorf("Interval() = %v, want 30s", w.Interval())
	}
	if w.logger != logger {
		t.Error("custom logger not applied")
	}
	if len(w.callbacks) != 1 {
		t.Errorf("len(callbacks) = %d, want 1 (nil callback ignored)", len(w.callbacks))
	}
}
