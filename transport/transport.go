// Package transport implements the generic send-with-retry engine shared by
// every backend family. It is written against the pictor.Descriptor contract
// only and never branches on a concrete backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/pictor"
)

// Transport executes dispatch calls over one shared HTTP connection pool.
// It holds no per-call state: concurrent dispatches against the same
// Transport, with the same or different descriptors, are independent.
// Credentials are attached per outgoing request and never stored on the
// shared client.
type Transport struct {
	http   *http.Client
	logger pictor.Logger
	events chan<- Event
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the underlying HTTP client. The client's own
// Timeout should be left at zero; deadlines come from the descriptor.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.http = c
	}
}

// WithLogger sets the logger collaborator for attempt/outcome logging.
func WithLogger(l pictor.Logger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}

// WithEvents sets an optional channel for dispatch events. Events are sent
// non-blocking; if the channel is full, events are dropped.
func WithEvents(ch chan<- Event) Option {
	return func(t *Transport) {
		t.events = ch
	}
}

// New creates a Transport with a fresh connection pool.
func New(opts ...Option) *Transport {
	t := &Transport{
		http:   &http.Client{},
		logger: pictor.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Close releases the underlying connection pool. The Transport must not be
// used after Close.
func (t *Transport) Close() {
	t.http.CloseIdleConnections()
}

// Dispatch executes one generate request against one descriptor with bounded
// retry, returning the decoded response or a typed failure.
//
// The call is bounded by the descriptor's timeout merged with ctx; whichever
// fires first aborts the in-flight attempt. Network failures and responses
// with status >= 500 are retried up to MaxRetries additional attempts with
// exponential backoff (base * 2^attempt, no sleep after the last attempt).
// Responses in [400,500) fail immediately with a client-kind error carrying
// the status and raw body. Caller cancellation propagates immediately as a
// cancelled-kind error, bypassing retry.
func Dispatch[Req pictor.Payload, Resp any](ctx context.Context, t *Transport, d pictor.Descriptor, req Req) (*Resp, error) {
	if t == nil {
		return nil, pictor.NewValidationError("transport", "must not be nil")
	}
	if d == nil {
		return nil, pictor.NewValidationError("descriptor", "must not be nil")
	}
	if isNil(req) {
		return nil, pictor.NewValidationError("request", "must not be nil")
	}

	target, err := requestURL(d)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pictor.NewSerializationError("encode request", err)
	}

	requestID := uuid.NewString()
	callCtx, cancel := context.WithTimeout(ctx, d.Timeout())
	defer cancel()

	attempts := d.MaxRetries() + 1
	if attempts < 1 {
		attempts = 1
	}
	var lastErr *pictor.Error

	for attempt := 0; attempt < attempts; attempt++ {
		t.emit(Event{Type: EventAttemptStart, RequestID: requestID, Model: d.ModelName(), Attempt: attempt + 1, MaxAttempts: attempts})
		t.logger.Debug("dispatch attempt",
			"request_id", requestID,
			"model", d.ModelName(),
			"attempt", attempt+1,
			"max_attempts", attempts,
		)

		resp, derr := t.exchange(callCtx, d, target, requestID, body)
		if derr == nil {
			out := new(Resp)
			if err := decodeBody(resp, out); err != nil {
				return nil, err
			}
			t.emit(Event{Type: EventSuccess, RequestID: requestID, Model: d.ModelName(), Attempt: attempt + 1, MaxAttempts: attempts})
			t.logger.Debug("dispatch succeeded", "request_id", requestID, "attempt", attempt+1)
			return out, nil
		}

		lastErr = classify(ctx, callCtx, d, derr)
		t.emit(Event{Type: EventAttemptFailed, RequestID: requestID, Model: d.ModelName(), Attempt: attempt + 1, MaxAttempts: attempts, StatusCode: lastErr.Code, Err: lastErr})

		if !lastErr.Retryable() {
			t.logger.Warn("dispatch failed",
				"request_id", requestID,
				"kind", string(lastErr.Kind),
				"status", lastErr.Code,
			)
			return nil, lastErr
		}

		if attempt < attempts-1 {
			delay := backoffDelay(d.RetryBaseDelay(), attempt)
			if lastErr.RetryDelay > delay {
				delay = lastErr.RetryDelay
			}
			t.emit(Event{Type: EventRetrying, RequestID: requestID, Model: d.ModelName(), Attempt: attempt + 1, MaxAttempts: attempts, Delay: delay})
			t.logger.Debug("retrying",
				"request_id", requestID,
				"attempt", attempt+1,
				"delay", delay,
				"error", lastErr,
			)
			select {
			case <-callCtx.Done():
				return nil, classify(ctx, callCtx, d, callCtx.Err())
			case <-time.After(delay):
			}
		}
	}

	t.emit(Event{Type: EventExhausted, RequestID: requestID, Model: d.ModelName(), Attempt: attempts, MaxAttempts: attempts, Err: lastErr})
	t.logger.Warn("dispatch exhausted retries",
		"request_id", requestID,
		"attempts", attempts,
		"kind", string(lastErr.Kind),
		"status", lastErr.Code,
	)
	return nil, lastErr
}

// statusError carries a non-2xx outcome from exchange to classify.
type statusError struct {
	code       int
	body       []byte
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}

// exchange performs one physical HTTP attempt. On a 2xx outcome it returns
// the raw response body; any other outcome is an error for classify.
func (t *Transport) exchange(ctx context.Context, d pictor.Descriptor, target, requestID string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	// Per-call headers only. The shared client carries no credentials, so
	// descriptors with different tokens never contaminate each other.
	httpReq.Header.Set("Authorization", "Bearer "+d.Credential())
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", pictor.UserAgent)
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{
			code:       resp.StatusCode,
			body:       raw,
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return raw, nil
}

// classify converts an attempt failure into exactly one typed error.
// Caller cancellation wins over the descriptor deadline so the two remain
// distinguishable.
func classify(parent, call context.Context, d pictor.Descriptor, err error) *pictor.Error {
	var se *statusError
	if errors.As(err, &se) {
		if se.code >= 500 {
			return pictor.NewServerError(se.code, se.body, se.retryAfter)
		}
		return pictor.NewClientError(se.code, se.body, se.retryAfter)
	}
	if parent.Err() != nil {
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			return pictor.NewTimeoutError(d.Timeout())
		}
		return pictor.NewCancelledError(parent.Err())
	}
	if errors.Is(call.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return pictor.NewTimeoutError(d.Timeout())
	}
	return pictor.NewNetworkError(err)
}

// decodeBody parses a 2xx body into the response type. An empty body and a
// parse failure are both serialization-kind errors, distinct from transport
// failures.
func decodeBody(raw []byte, out any) error {
	if len(raw) == 0 {
		return pictor.NewSerializationError("empty response body", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pictor.NewSerializationError("decode response", err)
	}
	return nil
}

// requestURL combines the descriptor's endpoint with its generation path and
// appends the API-version query parameter. An existing query string in the
// path is preserved by appending with & rather than overwriting.
func requestURL(d pictor.Descriptor) (string, error) {
	base := strings.TrimRight(d.Endpoint(), "/")
	path := d.GeneratePath()
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	raw := base + path
	if v := d.APIVersion(); v != "" {
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		raw += sep + "api-version=" + url.QueryEscape(v)
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", pictor.NewConfigError("endpoint", "does not resolve to a well-formed URL")
	}
	return raw, nil
}

// parseRetryAfter reads a Retry-After header value as either delay seconds
// or an HTTP date. Returns 0 when absent or unparseable.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := time.ParseDuration(v + "s"); err == nil && secs >= 0 {
		return secs
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// isNil reports whether the payload interface holds no value or a typed nil
// pointer. Requests are plain data shapes; the transport checks presence
// only and never re-validates content.
func isNil(p pictor.Payload) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
