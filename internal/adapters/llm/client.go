// Package llm is a minimal chat-completions client
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.openai.com/v1"
	defaultTimeout = 30 * time.Second
	maxBody        = 4 << 20
)

// Roles used in Message.Role
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one completion call
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type response struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls {base}/chat/completions
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.APIKey = strings.TrimSpace(o.APIKey)
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("llm"),
	}
}

// HasKey reports whether an api key is configured
func (c *Client) HasKey() bool { return c.opts.APIKey != "" }

// Complete returns the first choice's content, which may be empty
func (c *Client) Complete(ctx context.Context, in Request) (string, error) {
	if !c.HasKey() {
		return "", perr.Configf("llm api key is not set")
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "llm encode request")
	}

	url := strings.TrimRight(c.opts.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm read body")
	}
	c.log.Debug().
		Str("model", in.Model).
		Int("messages", len(in.Messages)).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("llm http response")

	var out response
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", perr.Newf(statusCode(resp.StatusCode), "llm status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", perr.Wrapf(decodeErr, perr.ErrorCodeJSON, "llm decode response")
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func statusCode(status int) perr.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	case status >= 500:
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeUnknown
	}
}
