package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the storefront REST backend
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Envelope is the JSON body every backend endpoint answers with
type Envelope struct {
	Message string          `json:"message"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// FieldError is one entry of a validation failure's data array
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is a decoded backend answer of any status
type Response struct {
	StatusCode int
	Envelope
	Body []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// FieldErrors returns data as a list of field errors when it has that shape
func (r *Response) FieldErrors() []FieldError {
	if len(r.Data) == 0 || r.Data[0] != '[' {
		return nil
	}
	var fields []FieldError
	if err := json.Unmarshal(r.Data, &fields); err != nil {
		return nil
	}
	return fields
}

// ErrorMessage builds the text shown to the customer for a failed call:
// field messages joined, else the backend message, else a generic text with the status.
func (r *Response) ErrorMessage() string {
	if msg := r.backendMessage(); msg != "" {
		return msg
	}
	return errors.Message(errors.CodeUnknown, r.StatusCode)
}

// backendMessage is the text the backend sent, if any
func (r *Response) backendMessage() string {
	if fields := r.FieldErrors(); len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Message != "" {
				msgs = append(msgs, f.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "، ")
		}
	}
	return r.Message
}

// Err classifies a non-2xx response. The code comes from the backend "code"
// field, then from validation field names, then from the status alone. Message
// text is never inspected: a 422 without a code or a known field is
// payload_invalid and keeps the backend message for display.
func (r *Response) Err() *errors.DomainError {
	if r.OK() {
		return nil
	}
	if r.StatusCode == http.StatusUnauthorized {
		return errors.New(errors.CodeUnauthorized, r.StatusCode, nil)
	}
	if r.Code != "" {
		if code := errors.ParseCode(r.Code); code != errors.CodeUnknown {
			return errors.New(code, r.StatusCode, nil)
		}
	}
	if r.StatusCode == http.StatusUnprocessableEntity {
		for _, f := range r.FieldErrors() {
			if code, ok := errors.CodeForField(f.Field); ok {
				return errors.New(code, r.StatusCode, nil)
			}
		}
		return errors.WithMessage(errors.CodePayloadInvalid, r.StatusCode, r.backendMessage())
	}
	return errors.WithMessage(errors.CodeUnknown, r.StatusCode, r.ErrorMessage())
}

// Decode unmarshals data into out, or returns the classified error
func (r *Response) Decode(out interface{}) error {
	if err := r.Err(); err != nil {
		return err
	}
	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return errors.New(errors.CodeMalformedResponse, r.StatusCode, fmt.Errorf("failed to unmarshal data: %w", err))
	}
	return nil
}

// BearerToken returns the Authorization header value for token. A token that
// already carries the "Bearer " prefix is not prefixed twice.
func BearerToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "Bearer ")
	return "Bearer " + token
}

// Do executes a request against the backend. Transport and decode failures
// are returned as errors; any HTTP status is returned as a Response.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, token string, body interface{}) (*Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", BearerToken(token))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, errors.New(errors.CodeNetwork, 0, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.CodeNetwork, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	out := &Response{StatusCode: resp.StatusCode, Body: raw}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		if out.OK() {
			return nil, errors.New(errors.CodeMalformedResponse, resp.StatusCode, fmt.Errorf("failed to unmarshal response: %w", err))
		}
		// Error pages are often HTML; keep the status and move on
		c.logger.Warn("Non-JSON error response",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
	}

	return out, nil
}
