// Package client is the entry point for pictor: a thin facade that owns a
// transport and exposes one generic generate operation over it.
package client

import (
	"context"
	"net/http"
	"reflect"
	"sync"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/transport"
)

// Client owns one Transport for its lifetime. It is safe for concurrent use;
// many generate calls against the same or different descriptors may run at
// once. Call Close to release the underlying connection pool.
type Client struct {
	transport *transport.Transport
	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     pictor.Logger
	events     chan<- transport.Event
}

// WithHTTPClient replaces the transport's underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger collaborator for attempt/outcome logging.
func WithLogger(l pictor.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEvents sets an optional channel for dispatch events.
func WithEvents(ch chan<- transport.Event) Option {
	return func(o *options) {
		o.events = ch
	}
}

// New creates a Client with its own Transport.
func New(opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var topts []transport.Option
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.logger != nil {
		topts = append(topts, transport.WithLogger(o.logger))
	}
	if o.events != nil {
		topts = append(topts, transport.WithEvents(o.events))
	}
	return &Client{transport: transport.New(topts...)}
}

// Close releases the Transport's connection pool. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.transport.Close()
	})
}

// Generate runs the request's own validation, then delegates the exchange to
// the Transport. It is the single generic entry point shared by every
// backend family; the family packages wrap it with their concrete types.
func Generate[Req pictor.Payload, Resp any](ctx context.Context, c *Client, d pictor.Descriptor, req Req) (*Resp, error) {
	if c == nil {
		return nil, pictor.NewValidationError("client", "must not be nil")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	return transport.Dispatch[Req, Resp](ctx, c.transport, d, req)
}

// GenerateOnce is a convenience for one-shot callers: it acquires a Client,
// runs a single generate, and releases the connection pool on every exit
// path.
func GenerateOnce[Req pictor.Payload, Resp any](ctx context.Context, d pictor.Descriptor, req Req, opts ...Option) (*Resp, error) {
	c := New(opts...)
	defer c.Close()
	return Generate[Req, Resp](ctx, c, d, req)
}

// validate invokes the request's own validation rules. Nil requests are left
// for the transport's presence check so both entry points agree on the error.
func validate(req pictor.Payload) error {
	if req == nil {
		return nil
	}
	if v := reflect.ValueOf(req); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	if err := req.Validate(); err != nil {
		if pictor.IsValidation(err) {
			return err
		}
		return &pictor.Error{Kind: pictor.KindValidation, Msg: "invalid request", Cause: err}
	}
	return nil
}
