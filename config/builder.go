package config

import (
	"fmt"
	"sort"

	"github.com/jpalmerr/statuswatch"
)

// BuildTarget converts parsed configuration into an SDK Target.
//
// Extractor selectors and patterns are compiled here, so an invalid CSS
// selector or regular expression is reported before polling starts.
func BuildTarget(cfg *Config) (statuswatch.Target, error) {
	tc := cfg.Target

	extractor, err := BuildExtractor(tc.Extractor)
	if err != nil {
		return statuswatch.Target{}, fmt.Errorf("target (%s): %w", tc.Name, err)
	}

	opts := []statuswatch.TargetOption{
		statuswatch.WithTimeout(tc.Timeout.Duration()),
	}

	if tc.UserAgent != "" {
		opts = append(opts, statuswatch.WithUserAgent(tc.UserAgent))
	}

	if len(tc.Headers) > 0 {
		opts = append(opts, statuswatch.WithHeaders(mapToKeyValuePairs(tc.Headers)...))
	}

	return statuswatch.NewTarget(tc.Name, tc.URL, extractor, opts...)
}

// BuildExtractor converts an ExtractorConfig to an SDK StatusExtractor.
func BuildExtractor(ec ExtractorConfig) (statuswatch.StatusExtractor, error) {
	switch ec.Type {
	case "aria":
		return statuswatch.AriaLabelExtractor(ec.ClassContains, ec.LabelContains), nil
	case "css":
		return statuswatch.SelectorExtractor(ec.Selector, ec.Attr)
	case "text":
		return statuswatch.TextExtractor(ec.Selector)
	case "regex":
		return statuswatch.RegexExtractor(ec.Pattern)
	case "json":
		return statuswatch.JSONFieldExtractor(ec.Path), nil
	default:
		return nil, fmt.Errorf("unknown extractor type %q", ec.Type)
	}
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
