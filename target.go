package statuswatch

import (
	"errors"
	"net/url"
	"time"
)

const (
	defaultTargetTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every page request unless overridden.
	// Status pages commonly reject requests that do not look like a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultAccept is the Accept header sent with every page request.
	DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// Target is the page being watched and the query used to read its status.
//
// Target is immutable after creation via [NewTarget]. Fields are private
// with getters that return copies of mutable data.
type Target struct {
	name      string
	url       string
	headers   map[string]string
	timeout   time.Duration
	extractor StatusExtractor
}

// Name returns the target's display name. It appears in logs and in the
// alert message as the server name.
func (t Target) Name() string {
	return t.name
}

// URL returns the page URL that is fetched on every poll.
func (t Target) URL() string {
	return t.url
}

// Headers returns a copy of the HTTP headers sent with every request,
// including User-Agent and Accept.
func (t Target) Headers() map[string]string {
	return copyMap(t.headers)
}

// Timeout returns the per-request timeout. Defaults to 10 seconds.
func (t Target) Timeout() time.Duration {
	return t.timeout
}

// Extractor returns the target's [StatusExtractor].
func (t Target) Extractor() StatusExtractor {
	return t.extractor
}

// NewTarget creates a [Target] with the given name, URL, extractor and options.
//
// The rawURL parameter must be a valid http or https URL. The extractor is
// required; see [AriaLabelExtractor] and [SelectorExtractor].
//
// Example:
//
//	target, err := statuswatch.NewTarget("Sunstorm",
//	    "https://www.playthroneandliberty.com/en-us/support/server-status",
//	    statuswatch.AriaLabelExtractor("server-item-label", "Sunstorm"),
//	    statuswatch.WithTimeout(10*time.Second),
//	)
func NewTarget(name, rawURL string, extractor StatusExtractor, opts ...TargetOption) (Target, error) {
	if name == "" {
		return Target{}, errors.New("target name cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Target{}, errors.New("URL must have an http:// or https:// scheme")
	}

	if extractor == nil {
		return Target{}, errors.New("extractor cannot be nil")
	}

	cfg := &targetConfig{
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     DefaultAccept,
		},
		timeout: defaultTargetTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Target{}, err
		}
	}

	return Target{
		name:      name,
		url:       rawURL,
		headers:   cfg.headers,
		timeout:   cfg.timeout,
		extractor: extractor,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
