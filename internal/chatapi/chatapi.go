// Package chatapi is the HTTP client for the remote chat service.
//
// The service exposes a single completion endpoint:
//
//	POST {base_url}/chat   {"message": "..."}  ->  {"response": "..."}
//
// and a health check at GET {base_url}/.
package chatapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	chatPath   = "/chat"
	healthPath = "/"
)

// ChatRequest is the request body of the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the response body of the chat endpoint.
// Response is a pointer so that a missing field can be told apart from an empty reply.
type ChatResponse struct {
	Status   string  `json:"status,omitempty"`
	Response *string `json:"response"`
}

// errorBody is the error shape returned by the service on non-2xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// healthBody is the response of the health check.
type healthBody struct {
	Message string `json:"message"`
}

// Client implements chatpanel.Client over HTTP.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger routes client and transport logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l.With().Str("component", "chatapi").Logger()
		c.http.SetLogger(restyLogger{c.logger})
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
		logger: zerolog.Nop(),
	}
	c.http.SetLogger(restyLogger{c.logger})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug enables or disables request/response dumps.
func (c *Client) SetDebug(enabled bool) {
	c.http.SetDebug(enabled)
}

// Chat posts message to the chat endpoint and returns the decoded reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ChatRequest{Message: message}).
		Post(chatPath)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("Chat response received")

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", newStatusError(resp.StatusCode(), resp.Body())
	}

	var result ChatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Response == nil {
		return "", fmt.Errorf("%w: missing \"response\" field", ErrMalformedResponse)
	}

	return *result.Response, nil
}

// Ping calls the health check and returns the service banner.
// Useful to wake a backend that sleeps when idle.
func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(healthPath)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	if resp.IsError() {
		return "", newStatusError(resp.StatusCode(), resp.Body())
	}

	var body healthBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Message == "" {
		// The banner is informational only.
		return strings.TrimSpace(string(resp.Body())), nil
	}
	return body.Message, nil
}

func newStatusError(code int, body []byte) *StatusError {
	var eb errorBody
	detail := ""
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		detail = eb.Detail
	} else {
		detail = strings.TrimSpace(string(body))
	}
	return &StatusError{StatusCode: code, Detail: detail}
}

// restyLogger adapts zerolog to resty's logger interface.
type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error().Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug().Msgf(strings.TrimSpace(format), v...)
}
