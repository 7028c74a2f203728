package statuswatch

import (
	"testing"
	"time"
)

func staticExtractor(body []byte) (Status, error) {
	return "Online", nil
}

func TestNewTarget_Defaults(t *testing.T) {
	target, err := NewTarget("Sunstorm", "https://example.com/status", staticExtractor)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	if target.Name() != "Sunstorm" {
		t.Errorf("Name() = %q, want %q", target.Name(), "Sunstorm")
	}
	if target.URL() != "https://example.com/status" {
		t.Errorf("URL() = %q, want %q", target.URL(), "https://example.com/status")
	}
	if target.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", target.Timeout())
	}
	if target.Extractor() == nil {
		t.Error("Extractor() = nil")
	}

	headers := target.Headers()
	if headers["User-Agent"] != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default", headers["User-Agent"])
	}
	if headers["Accept"] != DefaultAccept {
		t.Errorf("Accept = %q, want default", headers["Accept"])
	}
}

func TestNewTarget_Validation(t *testing.T) {
	tests := []struct {
		name      string
		tname     string
		url       string
		extractor StatusExtractor
	}{
		{"empty name", "", "https://example.com", staticExtractor},
		{"no scheme", "x", "example.com/status", staticExtractor},
		{"ftp scheme", "x", "ftp://example.com", staticExtractor},
		{"unparseable url", "x", "://bad", staticExtractor},
		{"nil extractor", "x", "https://example.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTarget(tt.tname, tt.url, tt.extractor); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewTarget_Options(t *testing.T) {
	target, err := NewTarget("x", "http://example.com", staticExtractor,
		WithTimeout(3*time.Second),
		WithUserAgent("statuswatch-test/1.0"),
		WithHeaders("accept-language", "en-US", "Cache-Control", "no-cache"),
	)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	if target.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", target.Timeout())
	}

	headers := target.Headers()
	want := map[string]string{
		"User-Agent":      "statuswatch-test/1.0",
		"Accept":          DefaultAccept,
		"Accept-Language": "en-US",
		"Cache-Control":   "no-cache",
	}
	for k, v := range want {
		if headers[k] != v {
			t.Errorf("Headers()[%q] = %q, want %q", k, headers[k], v)
		}
	}
}

func TestNewTarget_HeaderKeyCanonicalised(t *testing.T) {
	target, err := NewTarget("x", "http://example.com", staticExtractor,
		WithHeaders("user-agent", "lower/1.0"),
	)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	headers := target.Headers()
	if headers["User-Agent"] != "lower/1.0" {
		t.Errorf("User-Agent = %q, want %q", headers["User-Agent"], "lower/1.0")
	}
	if len(headers) != 2 {
		t.Errorf("len(Headers()) = %d, want 2", len(headers))
	}
}

func TestTargetOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  TargetOption
	}{
		{"odd headers", WithHeaders("a")},
		{"empty header key", WithHeaders("", "v")},
		{"empty user agent", WithUserAgent("")},
		{"zero timeout", WithTimeout(0)},
		{"negative timeout", WithTimeout(-time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTarget("x", "http://example.com", staticExtractor, tt.opt); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTarget_HeadersIsCopy(t *testing.T) {
	target, err := NewTarget("x", "http://example.com", staticExtractor)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	headers := target.Headers()
	headers["User-Agent"] = "modified"
	headers["X-New"] = "value"

	again := target.Headers()
	if again["User-Agent"] != DefaultUserAgent {
		t.Errorf("mutation affected target: User-Agent = %q", again["User-Agent"])
	}
	if _, exists := again["X-New"]; exists {
		t.Error("mutation added new header to target")
	}
}
