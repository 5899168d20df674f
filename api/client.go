package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/oops"
)

// Error codes attached to the internal oops errors of a failed call.
const (
	CodeEncode    = "API_ENCODE"
	CodeTransport = "API_TRANSPORT"
	CodeDecode    = "API_DECODE"
)

// Kind tags how a call ended. Only KindNone carries a backend response; every
// other kind produced the synthesized connection failure.
type Kind uint8

const (
	// KindNone means the backend answered with a parsable JSON body.
	KindNone Kind = iota
	// KindEncode means the request body could not be serialized.
	KindEncode
	// KindTransport means the request could not be sent or the body not read.
	KindTransport
	// KindDecode means the response body was not a JSON object.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEncode:
		return "encode"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Observer is notified once per call with the endpoint, outcome kind and latency.
type Observer interface {
	ObserveRequest(endpoint Endpoint, kind Kind, elapsed time.Duration)
}

// Options describe a single request.
type Options struct {
	// Method defaults to POST.
	Method string
	// Body is serialized to JSON. A nil Body sends no payload.
	Body any
	// Headers are merged over the JSON content type; on a key collision the
	// caller's value wins.
	Headers map[string]string
}

// Result is the full outcome of a call. Response is always populated.
type Result struct {
	Response Response
	Kind     Kind
	Status   int
	Err      error
}

// Client issues backend calls. It is safe for concurrent use.
type Client struct {
	endpoints Endpoints
	doer      Doer
	logger    zerolog.Logger
	observer  Observer
	headers   map[string]string
	now       func() time.Time
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the transport used for every call.
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithObserver registers a per-call observer.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// WithDefaultHeaders adds headers to every call made through Call and the
// typed helpers.
func WithDefaultHeaders(h map[string]string) ClientOption {
	return func(c *Client) {
		if len(h) == 0 {
			return
		}
		c.headers = make(map[string]string, len(h))
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// NewClient returns a client bound to endpoints. Without WithHTTPClient it
// uses a plain *http.Client with no timeout.
func NewClient(endpoints Endpoints, opts ...ClientOption) *Client {
	c := &Client{
		endpoints: endpoints,
		doer:      &http.Client{},
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the endpoint table the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Request performs one call and returns the parsed body. It never fails: any
// transport or parse error becomes a response with Success false and
// ConnectionErrorMessage.
func (c *Client) Request(ctx context.Context, rawURL string, opts Options) Response {
	return c.Do(ctx, rawURL, opts).Response
}

// Do performs one call and reports how it ended. The returned Response obeys
// the same contract as Request.
func (c *Client) Do(ctx context.Context, rawURL string, opts Options) (res Result) {
	const op = "api.Do"

	endpoint, _ := c.endpoints.Lookup(rawURL)
	start := c.now()

	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Response: connectionFailure(),
				Kind:     KindTransport,
				Err: oops.Code(CodeTransport).
					With("endpoint", string(endpoint)).
					Errorf("panic during request: %v", r),
			}
		}
		c.finish(op, endpoint, res, c.now().Sub(start))
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	method := opts.Method
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return Result{
				Response: connectionFailure(),
				Kind:     KindEncode,
				Err:      oops.Code(CodeEncode).With("endpoint", string(endpoint)).Wrap(err),
			}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return Result{
			Response: connectionFailure(),
			Kind:     KindTransport,
			Err:      oops.Code(CodeTransport).With("endpoint", string(endpoint)).Wrap(err),
		}
	}
	for k, v := range mergeHeaders(opts.Headers) {
		req.Header.Set(k, v)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return Result{
			Response: connectionFailure(),
			Kind:     KindTransport,
			Err:      oops.Code(CodeTransport).With("endpoint", string(endpoint)).Wrap(err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{
			Response: connectionFailure(),
			Kind:     KindTransport,
			Status:   resp.StatusCode,
			Err:      oops.Code(CodeTransport).With("endpoint", string(endpoint)).With("status", resp.StatusCode).Wrap(err),
		}
	}

	parsed, err := decodeResponse(raw)
	if err != nil {
		return Result{
			Response: connectionFailure(),
			Kind:     KindDecode,
			Status:   resp.StatusCode,
			Err:      oops.Code(CodeDecode).With("endpoint", string(endpoint)).With("status", resp.StatusCode).Wrap(err),
		}
	}
	parsed.Raw = raw

	return Result{Response: parsed, Kind: KindNone, Status: resp.StatusCode}
}

// Call posts body to the named endpoint.
func (c *Client) Call(ctx context.Context, ep Endpoint, body any) Result {
	rawURL := c.endpoints.URL(ep)
	if rawURL == "" {
		return Result{
			Response: connectionFailure(),
			Kind:     KindTransport,
			Err:      oops.Code(CodeTransport).With("endpoint", string(ep)).Errorf("unknown endpoint"),
		}
	}
	return c.Do(ctx, rawURL, Options{Method: http.MethodPost, Body: body, Headers: c.headers})
}

// Register calls the register endpoint.
func (c *Client) Register(ctx context.Context, req RegisterRequest) Response {
	return c.Call(ctx, EndpointRegister, req).Response
}

// Login calls the login endpoint.
func (c *Client) Login(ctx context.Context, req LoginRequest) Response {
	return c.Call(ctx, EndpointLogin, req).Response
}

// VerifyEmail calls the verify-email endpoint.
func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) Response {
	return c.Call(ctx, EndpointVerifyEmail, req).Response
}

// ForgotPassword calls the forgot-password endpoint.
func (c *Client) ForgotPassword(ctx context.Context, email string) Response {
	return c.Call(ctx, EndpointForgotPassword, EmailRequest{Email: email}).Response
}

// ResetPassword calls the reset-password endpoint.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) Response {
	return c.Call(ctx, EndpointResetPassword, req).Response
}

// ResendVerification calls the resend-verification endpoint.
func (c *Client) ResendVerification(ctx context.Context, email string) Response {
	return c.Call(ctx, EndpointResendVerification, EmailRequest{Email: email}).Response
}

func (c *Client) finish(op string, endpoint Endpoint, res Result, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, res.Kind, elapsed)
	}

	if res.Kind == KindNone {
		c.logger.Debug().
			Str("op", op).
			Str("endpoint", string(endpoint)).
			Int("status", res.Status).
			Bool("success", res.Response.Success).
			Dur("elapsed", elapsed).
			Msg("backend call completed")
		return
	}

	ev := c.logger.Warn().
		Str("op", op).
		Str("endpoint", string(endpoint)).
		Str("kind", res.Kind.String()).
		Dur("elapsed", elapsed)
	if oopsErr, ok := oops.AsOops(res.Err); ok {
		ev = ev.Str("code", fmt.Sprint(oopsErr.Code()))
	}
	ev.Err(res.Err).Msg("backend call failed")
}

func mergeHeaders(extra map[string]string) map[string]string {
	merged := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range extra {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return merged
}
