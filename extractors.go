package statuswatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// AriaLabelExtractor returns a [StatusExtractor] that finds the first element
// whose class attribute contains classContains and whose aria-label attribute
// contains labelContains, and returns that element's aria-label.
//
// This is the shape of most server-status pages: one labelled badge per
// server, where the aria-label carries both the server name and its state.
//
// Only the first match is used. Pages that render several badges matching
// both substrings are not disambiguated.
//
// Example:
//
//	// <span class="server-item-label" aria-label="Sunstorm Online">
//	extractor := statuswatch.AriaLabelExtractor("server-item-label", "Sunstorm")
func AriaLabelExtractor(classContains, labelContains string) StatusExtractor {
	selector := fmt.Sprintf(`[class*=%s][aria-label*=%s]`, cssString(classContains), cssString(labelContains))
	return MustSelectorExtractor(selector, "aria-label")
}

// SelectorExtractor returns a [StatusExtractor] that applies a CSS selector
// to the page and reads attr from the first matching element. If attr is
// empty, the element's text content is used instead.
//
// The selector is compiled once; an invalid selector is reported here rather
// than on every poll. The returned value is trimmed of surrounding whitespace.
//
// Extraction results:
//   - no element matches: [ErrNoMatch]
//   - the attribute is missing or blank: [ErrEmptyLabel]
//   - the body cannot be parsed as HTML: a wrapped parse error
func SelectorExtractor(selector, attr string) (StatusExtractor, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	return func(body []byte) (Status, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to parse html: %w", err)
		}

		match := doc.FindMatcher(sel).First()
		if match.Length() == 0 {
			return "", ErrNoMatch
		}

		var label string
		if attr == "" {
			label = match.Text()
		} else {
			label, _ = match.Attr(attr)
		}

		label = strings.TrimSpace(label)
		if label == "" {
			return "", ErrEmptyLabel
		}
		return Status(label), nil
	}, nil
}

// MustSelectorExtractor is like [SelectorExtractor] but panics if the
// selector is invalid.
//
// Use this for constant selectors where you want to fail fast at startup.
func MustSelectorExtractor(selector, attr string) StatusExtractor {
	extractor, err := SelectorExtractor(selector, attr)
	if err != nil {
		panic("statuswatch: " + err.Error())
	}
	return extractor
}

// TextExtractor returns a [StatusExtractor] that reads the trimmed text
// content of the first element matching selector.
func TextExtractor(selector string) (StatusExtractor, error) {
	return SelectorExtractor(selector, "")
}

// RegexExtractor returns a [StatusExtractor] that matches the raw body against
// pattern and returns the first capture group, trimmed.
//
// The pattern must contain at least one capture group. This is useful when
// the label is embedded in inline script data rather than in markup.
//
// Example:
//
//	extractor, err := statuswatch.RegexExtractor(`"Sunstorm":\s*"(\w+)"`)
func RegexExtractor(pattern string) (StatusExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", pattern)
	}

	return func(body []byte) (Status, error) {
		matches := re.FindSubmatch(body)
		if len(matches) < 2 {
			return "", ErrNoMatch
		}
		label := strings.TrimSpace(string(matches[1]))
		if label == "" {
			return "", ErrEmptyLabel
		}
		return Status(label), nil
	}, nil
}

// JSONFieldExtractor returns a [StatusExtractor] that reads a field from a
// JSON body using dot notation, for status pages backed by a JSON API.
//
// Booleans and numbers are converted to their string form. A missing field
// yields [ErrNoMatch].
//
// Example:
//
//	// For response: {"servers": {"sunstorm": {"state": "online"}}}
//	extractor := statuswatch.JSONFieldExtractor("servers.sunstorm.state")
func JSONFieldExtractor(path string) StatusExtractor {
	parts := strings.Split(path, ".")
	return func(body []byte) (Status, error) {
		var data interface{}
		if err := json.Unmarshal(body, &data); err != nil {
			return "", fmt.Errorf("failed to parse json: %w", err)
		}

		value, ok := extractJSONPath(data, parts)
		if !ok {
			return "", ErrNoMatch
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", ErrEmptyLabel
		}
		return Status(value), nil
	}
}

// extractJSONPath walks a JSON structure using dot notation parts.
func extractJSONPath(data interface{}, parts []string) (string, bool) {
	current := data
	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		current, ok = obj[part]
		if !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// FirstMatch returns a [StatusExtractor] that tries multiple extractors in
// order, returning the first result that is not [ErrNoMatch].
//
// Errors other than ErrNoMatch stop the search and are returned as is, so a
// broken page is not masked by a fallback query. If every extractor misses,
// FirstMatch returns ErrNoMatch.
//
// Example:
//
//	// Prefer the badge, fall back to the heading text.
//	extractor := statuswatch.FirstMatch(
//	    statuswatch.AriaLabelExtractor("server-item-label", "Sunstorm"),
//	    headingExtractor,
//	)
func FirstMatch(extractors ...StatusExtractor) StatusExtractor {
	return func(body []byte) (Status, error) {
		for _, extractor := range extractors {
			status, err := extractor(body)
			if errors.Is(err, ErrNoMatch) {
				continue
			}
			return status, err
		}
		return "", ErrNoMatch
	}
}

// cssString quotes s as a CSS string literal for use in attribute selectors.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			// control characters need the hex escape form, terminated by a space
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
