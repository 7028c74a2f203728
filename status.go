package statuswatch

import (
	"errors"
	"time"
)

// Status is the label read from the monitored page, such as "Online" or
// "Maintenance".
//
// Status values are compared by exact string equality. No normalisation is
// applied beyond the whitespace trimming done by the extractors.
type Status string

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ErrNoMatch is returned by a [StatusExtractor] when the structural query
// matched no element. The poll loop treats it like a failed fetch.
var ErrNoMatch = errors.New("no element matched the status query")

// ErrEmptyLabel is returned by a [StatusExtractor] when an element matched
// but carried no usable label.
var ErrEmptyLabel = errors.New("matched element has an empty status label")

// StatusExtractor reads the current [Status] out of a page body.
//
// StatusExtractor is a pure function: the same body always produces the same
// result. It returns [ErrNoMatch] (possibly wrapped) when the query finds
// nothing, and any other error when the body cannot be interpreted.
//
// # Panic Safety
//
// Extractors are called within a panic recovery boundary. A panic is logged
// with a correlation ID and ends [Watcher.Run] with an error, since it means
// the extractor itself is broken rather than the page being unavailable.
type StatusExtractor func(body []byte) (Status, error)

// Observation holds the outcome of a single poll cycle.
type Observation struct {
	// Target is the display name of the polled target.
	Target string

	// URL is the page that was fetched.
	URL string

	// Status is the extracted label. Empty when Err is non-nil.
	Status Status

	// CheckedAt is the timestamp taken at the start of the cycle.
	CheckedAt time.Time

	// Latency is the time taken to complete the HTTP request.
	Latency time.Duration

	// StatusCode is the HTTP status code returned by the page.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Err is the fetch or extraction error, if any. A non-nil Err means the
	// cycle produced no status and the change detector was not consulted.
	Err error
}

// OK reports whether the cycle produced a status.
func (o Observation) OK() bool {
	return o.Err == nil
}
