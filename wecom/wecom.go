// Package wecom sends text alerts to a WeCom group-robot webhook.
//
// The webhook accepts a JSON message and answers with a JSON body whose
// errcode field is 0 on success. Anything else, including a body that is not
// JSON, is a failed delivery. Deliveries are attempted exactly once.
package wecom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// MentionAll is the mention entry that notifies every group member.
	MentionAll = "@all"

	maxResponseBodySize = 64 << 10
)

// ErrNoWebhookURL is returned by [Client.Notify] when no webhook URL is configured.
var ErrNoWebhookURL = errors.New("wecom: webhook URL is not configured")

// APIError is a delivery rejected by the webhook with a non-zero errcode.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("wecom: errcode %d: %s", e.Code, msg)
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	MsgType string `json:"msgtype"`
	Text    Text   `json:"text"`
}

// Text is the body of a text message.
type Text struct {
	Content       string   `json:"content"`
	MentionedList []string `json:"mentioned_list"`
}

// response is the webhook reply. Errcode is a pointer so that a JSON body
// without the field is distinguished from an explicit 0.
type response struct {
	Errcode *int   `json:"errcode"`
	Errmsg  string `json:"errmsg"`
}

// Client posts alerts to a single webhook URL.
type Client struct {
	webhookURL string
	mentions   []string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithMentions replaces the mentioned list. Defaults to [MentionAll].
// Passing no values disables mentions.
func WithMentions(mentions ...string) Option {
	return func(c *Client) {
		c.mentions = append([]string{}, mentions...)
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client for the given webhook URL.
func New(webhookURL string, opts ...Option) *Client {
	c := &Client{
		webhookURL: webhookURL,
		mentions:   []string{MentionAll},
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildPayload serialises a text message. The output is deterministic:
// identical content and mentions always give identical bytes.
func BuildPayload(content string, mentions []string) ([]byte, error) {
	if mentions == nil {
		mentions = []string{}
	}
	body, err := json.Marshal(Payload{
		MsgType: "text",
		Text: Text{
			Content:       content,
			MentionedList: mentions,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wecom: marshal payload: %w", err)
	}
	return body, nil
}

// Notify posts content to the webhook and interprets the reply.
//
// It returns nil only when the webhook answers with errcode 0. A non-zero
// errcode is returned as *APIError; transport failures and unreadable
// replies are returned wrapped.
func (c *Client) Notify(ctx context.Context, content string) error {
	if c.webhookURL == "" {
		return ErrNoWebhookURL
	}

	body, err := BuildPayload(content, c.mentions)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("wecom: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wecom: deliver: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("wecom: read response: %w", err)
	}

	var result response
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("wecom: decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if result.Errcode == nil {
		return fmt.Errorf("wecom: response (HTTP %d) has no errcode", resp.StatusCode)
	}
	if *result.Errcode != 0 {
		return &APIError{Code: *result.Errcode, Message: result.Errmsg}
	}
	return nil
}
