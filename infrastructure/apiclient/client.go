// Package apiclient talks to the user-registration REST backend.
//
// Every response is the JSON envelope {success, message, data, errors}. A 401 is never returned as an
// envelope: it surfaces as an error matching ErrUnauthenticated so one coordinator can end the session.
// Transport failures and unreadable bodies match ErrNetwork.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"userhub/infrastructure/metrics"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNetwork         = errors.New("network error")
)

// UnauthenticatedError is returned for any 401 answer.
type UnauthenticatedError struct {
	Method  string
	Path    string
	Message string
}

func (e *UnauthenticatedError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, ErrUnauthenticated)
}

func (e *UnauthenticatedError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// NetworkError wraps failures that happen before a usable envelope is read.
type NetworkError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FieldError is a per-field validation failure reported by the backend.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the raw response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

// HasData reports whether data was present and not null.
func (e *Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Client issues authenticated JSON requests against BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client. A nil httpClient uses a client whose timeout is timeout (0 means none).
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Get issues a GET.
func (c *Client) Get(ctx context.Context, token, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, token, path, nil)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, token, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, token, path, body)
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, token, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, token, path, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, token, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, token, path, nil)
}

func (c *Client) do(ctx context.Context, method, token, path string, body any) (*Envelope, error) {
	endpoint := metrics.Endpoint(path)
	start := time.Now()
	env, outcome, err := c.roundTrip(ctx, method, token, path, body)
	metrics.BackendRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	metrics.BackendRequestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	if err != nil && !errors.Is(err, ErrUnauthenticated) {
		slog.Warn("backend call failed", slog.String("method", method), slog.String("path", path), slog.Any("err", err))
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, method, token, path string, body any) (*Envelope, string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "encode_error", fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "network_error", &NetworkError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "network_error", &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "network_error", &NetworkError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		unauth := &UnauthenticatedError{Method: method, Path: path}
		var env Envelope
		if json.Unmarshal(raw, &env) == nil {
			unauth.Message = env.Message
		}
		return nil, "unauthenticated", unauth
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, "network_error", &NetworkError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	return &env, strconv.Itoa(resp.StatusCode), nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
