// internal/api/client.go
//
// HTTP transport for the three backend endpoints. GraphQL requests are
// plain POSTs with a {query, variables, operationName} body; a response
// that carries an errors array is a MutationError regardless of status.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the subset of the logbook the client needs. A nil-safe no-op
// implementation is used when none is supplied.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Endpoints names the backend paths relative to the base URL.
type Endpoints struct {
	User   string
	Buyer  string
	Upload string
}

// DefaultEndpoints matches the deployed backend routes.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		User:   "/api/user/graphqlUser",
		Buyer:  "/api/buyer/graphqlBuyer",
		Upload: "/api/documents/uploadToCloudinary",
	}
}

// Client issues GraphQL operations and file uploads against the backend.
type Client struct {
	baseURL   string
	endpoints Endpoints
	http      *http.Client
	logger    Logger
	timeout   time.Duration
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logbook to the client.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEndpoints overrides the backend paths.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithTimeout bounds every backend call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		http:      &http.Client{},
		logger:    nopLogger{},
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// graphqlRequest is the wire body for both GraphQL endpoints.
type graphqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// run posts one GraphQL operation and decodes response data into out when
// out is non-nil. The caller's context is bounded by the client timeout.
func (c *Client) run(ctx context.Context, endpoint, operation, query string, variables map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	correlation := uuid.NewString()
	c.logger.Info("api · %s → %s [%s]", operation, endpoint, correlation)

	body, err := json.Marshal(graphqlRequest{
		Query:         query,
		Variables:     variables,
		OperationName: operation,
	})
	if err != nil {
		return &NetworkError{Op: operation, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("api · %s failed [%s]: %v", operation, correlation, err)
		return &NetworkError{Op: operation, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: operation, Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		c.logger.Error("api · %s returned status %d [%s]", operation, resp.StatusCode, correlation)
		return &NetworkError{Op: operation, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Errors) > 0 {
		messages := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("api · %s rejected [%s]: %s", operation, correlation, strings.Join(messages, "; "))
		return &MutationError{Op: operation, Messages: messages}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("api · %s returned status %d [%s]", operation, resp.StatusCode, correlation)
		return &NetworkError{Op: operation, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.Unmarshal(parsed.Data, out); err != nil {
			return &NetworkError{Op: operation, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	c.logger.Info("api · %s ok [%s]", operation, correlation)
	return nil
}
