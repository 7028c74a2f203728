// Package config provides YAML configuration parsing for statuswatch.
//
// A config file is optional: [Default] reproduces the built-in settings and
// [Parse] overlays whatever the file sets on top of them.
//
// Example configuration:
//
//	poll_interval: 6s
//
//	target:
//	  name: Sunstorm
//	  url: https://www.playthroneandliberty.com/en-us/support/server-status
//	  timeout: 10s
//	  extractor:
//	    class_contains: server-item-label
//	    label_contains: Sunstorm
//
//	webhook:
//	  url: https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=${WECOM_KEY}
//
//	log:
//	  file: server_monitor.log
//	  level: info
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minPollInterval is the minimum allowed polling interval. Status pages are
// public sites; anything faster is rude.
const minPollInterval = 1 * time.Second

const (
	defaultTargetName   = "Sunstorm"
	defaultTargetURL    = "https://www.playthroneandliberty.com/en-us/support/server-status"
	defaultClass        = "server-item-label"
	defaultPollInterval = 6 * time.Second
	defaultTimeout      = 10 * time.Second
	defaultWebhookURL   = "${WECOM_WEBHOOK_URL:-}"
	defaultLogFile      = "server_monitor.log"
	defaultLogLevel     = "info"
	defaultMaxSizeMB    = 10
	defaultMaxBackups   = 3
)

// Config is the root configuration structure for statuswatch.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// PollInterval is the wait between poll cycles. Defaults to 6s.
	PollInterval Duration `yaml:"poll_interval"`

	// Target is the page being watched.
	Target TargetConfig `yaml:"target"`

	// Webhook is where the alert is delivered.
	Webhook WebhookConfig `yaml:"webhook"`

	// Log controls console and file logging.
	Log LogConfig `yaml:"log"`
}

// TargetConfig defines the watched page.
type TargetConfig struct {
	// Name is the server name used in logs and in the alert.
	Name string `yaml:"name"`

	// URL is the status page URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// UserAgent overrides the browser User-Agent sent with each request.
	UserAgent string `yaml:"user_agent"`

	// Headers are extra HTTP headers. Values support environment variable
	// substitution.
	Headers map[string]string `yaml:"headers"`

	// Extractor determines how the status label is read from the page.
	Extractor ExtractorConfig `yaml:"extractor"`
}

// WebhookConfig defines the alert destination.
type WebhookConfig struct {
	// URL is the webhook URL including its key. Defaults to the
	// WECOM_WEBHOOK_URL environment variable.
	URL string `yaml:"url"`

	// Timeout is the delivery timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Mentions is the mentioned list. Defaults to ["@all"].
	Mentions []string `yaml:"mentions"`
}

// LogConfig defines logging output.
type LogConfig struct {
	// File is the rotated log file. Set to "" to log to the console only.
	File string `yaml:"file"`

	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`

	// MaxSizeMB is the rotation threshold in megabytes. Defaults to 10.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int `yaml:"max_backups"`
}

// ExtractorConfig specifies how to read the status label from the page.
//
// It supports two formats in YAML:
//
// Shorthand string:
//
//	extractor: json:data.status
//	extractor: regex:"state":"(\w+)"
//	extractor: text:h1.status
//
// Structured object (type is inferred when omitted):
//
//	extractor:
//	  class_contains: server-item-label
//	  label_contains: Sunstorm
//
//	extractor:
//	  selector: span.server-status
//	  attr: data-state
type ExtractorConfig struct {
	// Type is the extractor type: "aria", "css", "text", "regex", "json".
	Type string

	// ClassContains and LabelContains drive the aria extractor.
	ClassContains string
	LabelContains string

	// Selector and Attr drive the css and text extractors.
	Selector string
	Attr     string

	// Pattern is the regular expression for type: regex.
	Pattern string

	// Path is the JSON field path for type: json.
	Path string
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for ExtractorConfig.
// A configured extractor replaces the default one entirely.
func (e *ExtractorConfig) UnmarshalYAML(node *yaml.Node) error {
	*e = ExtractorConfig{}

	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return e.parseShorthand(s)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Type          string `yaml:"type"`
			ClassContains string `yaml:"class_contains"`
			LabelContains string `yaml:"label_contains"`
			Selector      string `yaml:"selector"`
			Attr          string `yaml:"attr"`
			Pattern       string `yaml:"pattern"`
			Path          string `yaml:"path"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*e = ExtractorConfig{
			Type:          raw.Type,
			ClassContains: raw.ClassContains,
			LabelContains: raw.LabelContains,
			Selector:      raw.Selector,
			Attr:          raw.Attr,
			Pattern:       raw.Pattern,
			Path:          raw.Path,
		}
		if e.Type == "" {
			e.Type = e.inferType()
		}
		return nil
	}

	return fmt.Errorf("extractor must be a string or object, got %v", node.Kind)
}

// inferType picks the extractor type from the fields that are set.
func (e *ExtractorConfig) inferType() string {
	switch {
	case e.ClassContains != "" || e.LabelContains != "":
		return "aria"
	case e.Selector != "" && e.Attr != "":
		return "css"
	case e.Selector != "":
		return "text"
	case e.Pattern != "":
		return "regex"
	case e.Path != "":
		return "json"
	default:
		return ""
	}
}

// parseShorthand parses extractor shorthand syntax.
//
// Supported formats:
//   - "json:path" → read a JSON field
//   - "regex:pattern" → first capture group
//   - "text:selector" → text of the first matching element
func (e *ExtractorConfig) parseShorthand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	idx := strings.Index(s, ":")
	if idx == -1 {
		return fmt.Errorf("unknown extractor %q (expected 'json:path', 'regex:pattern', or 'text:selector')", s)
	}

	e.Type = s[:idx]
	value := s[idx+1:]

	switch e.Type {
	case "json":
		e.Path = value
	case "regex":
		e.Pattern = value
	case "text":
		e.Selector = value
	default:
		return fmt.Errorf("unknown extractor type %q", e.Type)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the built-in configuration, before environment expansion.
func Default() *Config {
	return &Config{
		PollInterval: Duration(defaultPollInterval),
		Target: TargetConfig{
			Name:    defaultTargetName,
			URL:     defaultTargetURL,
			Timeout: Duration(defaultTimeout),
			Extractor: ExtractorConfig{
				Type:          "aria",
				ClassContains: defaultClass,
				LabelContains: defaultTargetName,
			},
		},
		Webhook: WebhookConfig{
			URL:     defaultWebhookURL,
			Timeout: Duration(defaultTimeout),
		},
		Log: LogConfig{
			File:       defaultLogFile,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
		},
	}
}

// Load reads and parses a YAML configuration file.
//
// An empty path means no file: the defaults are expanded and validated.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data on top of [Default].
//
// Environment variables are expanded in the target URL, header values and
// the webhook URL.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	t := &c.Target
	if t.Name == "" {
		return errors.New("target: name is required")
	}

	if t.URL == "" {
		return fmt.Errorf("target (%s): url is required", t.Name)
	}
	expanded, err := expandEnvVars(t.URL)
	if err != nil {
		return fmt.Errorf("target (%s): url: %w", t.Name, err)
	}
	t.URL = expanded
	if err := validateHTTPURL(t.URL); err != nil {
		return fmt.Errorf("target (%s): %w", t.Name, err)
	}

	for k, v := range t.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("target (%s): headers[%s]: %w", t.Name, k, err)
		}
		t.Headers[k] = expanded
	}

	if t.Timeout.Duration() < time.Second {
		return fmt.Errorf("target (%s): timeout must be at least 1s, got %s", t.Name, t.Timeout.Duration())
	}

	if err := validateExtractor(&t.Extractor, fmt.Sprintf("target (%s)", t.Name)); err != nil {
		return err
	}

	webhookURL, err := expandEnvVars(c.Webhook.URL)
	if err != nil {
		return fmt.Errorf("webhook: url: %w", err)
	}
	c.Webhook.URL = webhookURL
	if c.Webhook.URL == "" {
		return errors.New("webhook: url is required (set it in the config file or via WECOM_WEBHOOK_URL)")
	}
	if err := validateHTTPURL(c.Webhook.URL); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if c.Webhook.Timeout.Duration() < time.Second {
		return fmt.Errorf("webhook: timeout must be at least 1s, got %s", c.Webhook.Timeout.Duration())
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log: max_size_mb must be positive, got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log: max_backups cannot be negative, got %d", c.Log.MaxBackups)
	}

	return nil
}

// validateHTTPURL checks that raw is an absolute http or https URL.
func validateHTTPURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	return nil
}

// validateExtractor validates an extractor configuration.
func validateExtractor(e *ExtractorConfig, context string) error {
	switch e.Type {
	case "aria":
		if e.ClassContains == "" || e.LabelContains == "" {
			return fmt.Errorf("%s: extractor type 'aria' requires class_contains and label_contains", context)
		}
	case "css":
		if e.Selector == "" || e.Attr == "" {
			return fmt.Errorf("%s: extractor type 'css' requires selector and attr", context)
		}
	case "text":
		if e.Selector == "" {
			return fmt.Errorf("%s: extractor type 'text' requires a selector", context)
		}
	case "regex":
		if e.Pattern == "" {
			return fmt.Errorf("%s: extractor type 'regex' requires a pattern", context)
		}
	case "json":
		if e.Path == "" {
			return fmt.Errorf("%s: extractor type 'json' requires a path", context)
		}
	case "":
		return fmt.Errorf("%s: extractor is required", context)
	default:
		return fmt.Errorf("%s: unknown extractor type %q", context, e.Type)
	}

	return nil
}
