// Package httpx is the request pipeline between the UI layer and the
// remote API. Every call attaches the bearer token, counts itself against
// the shared in-flight counter, unwraps the { success, message, data }
// envelope, and classifies failures into the errx taxonomy.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	errx "github.com/nncoach/client-core/internal/core/error"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
	"github.com/nncoach/client-core/internal/state"
	logx "github.com/nncoach/client-core/pkg/logger"
)

type Config struct {
	BaseURL                string   `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
	TimeoutSeconds         int      `envconfig:"API_TIMEOUT_SECONDS" default:"15"`
	GenerateTimeoutSeconds int      `envconfig:"API_GENERATE_TIMEOUT_SECONDS" default:"120"`
	SuppressedMessages     []string `envconfig:"API_SUPPRESSED_MESSAGES"`
}

// Client wraps outbound HTTP calls. Side effects (loading flag, error
// messages, session teardown) act on the shared store and session passed
// at construction, so every concurrent caller observes the same state.
type Client struct {
	http        *http.Client
	baseURL     string
	timeout     time.Duration
	longTimeout time.Duration
	sessions    *session.Manager
	store       *state.Store
	notifier    Notifier
	suppress    func(string) bool
}

// Option configures a Client.
type Option func(*Client)

// WithNotifier replaces the default store-backed message sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithHTTPClient replaces the underlying transport, e.g. in tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSuppression replaces the suppression predicate deciding which
// server messages are expected/recoverable and must not be surfaced.
func WithSuppression(fn func(message string) bool) Option {
	return func(c *Client) { c.suppress = fn }
}

// New builds the pipeline. By default surfaced messages land in the
// store's error field and the suppression predicate is built from
// cfg.SuppressedMessages.
func New(cfg Config, sessions *session.Manager, store *state.Store, opts ...Option) *Client {
	suppressed := make(map[string]struct{}, len(cfg.SuppressedMessages))
	for _, m := range cfg.SuppressedMessages {
		m = strings.TrimSpace(m)
		if m != "" {
			suppressed[m] = struct{}{}
		}
	}

	c := &Client{
		http:        &http.Client{},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		longTimeout: time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
		sessions:    sessions,
		store:       store,
		suppress: func(message string) bool {
			_, ok := suppressed[message]
			return ok
		},
	}
	c.notifier = NotifierFunc(store.SetError)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LongTimeout is the extended per-call timeout for generation endpoints.
func (c *Client) LongTimeout() time.Duration {
	return c.longTimeout
}

type request struct {
	timeout     time.Duration
	query       url.Values
	header      http.Header
	rawBody     io.Reader
	contentType string
}

// RequestOption adjusts a single call.
type RequestOption func(*request)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *request) { r.timeout = d }
}

// WithQuery appends a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *request) { r.query.Add(key, value) }
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.header.Set(key, value) }
}

// WithRawBody sends the reader as-is under the given content type,
// bypassing JSON encoding (e.g. multipart uploads).
func WithRawBody(body io.Reader, contentType string) RequestOption {
	return func(r *request) {
		r.rawBody = body
		r.contentType = contentType
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Send(ctx, http.MethodDelete, path, nil, opts...)
}

// Send performs one API call and returns the envelope's data payload.
// The in-flight counter is incremented before the request and decremented
// on every outcome, including cancellation, so the loading flag can never
// drop while a sibling request is still outstanding.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	req := &request{
		timeout: c.timeout,
		query:   url.Values{},
		header:  http.Header{},
	}
	for _, opt := range opts {
		opt(req)
	}

	c.store.BeginRequest()
	defer c.store.EndRequest()

	reqID := uuid.NewString()
	logx.Debug().Str("reqID", reqID).Str("method", method).Str("path", path).Msg("api request")

	var payload io.Reader
	contentType := req.contentType
	switch {
	case req.rawBody != nil:
		payload = req.rawBody
	case body != nil:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errx.New(err, errx.KindClient, 0, errx.RequestFailedMessage)
		}
		payload = bytes.NewReader(raw)
	}
	if contentType == "" {
		contentType = "application/json"
	}

	target := c.baseURL + path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, req.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, errx.New(err, errx.KindClient, 0, errx.RequestFailedMessage)
	}

	if req.header != nil {
		httpReq.Header = req.header.Clone()
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := c.sessions.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logx.Warn().Str("reqID", reqID).Err(err).Msg("api request got no response")
		e := errx.Network(err)
		c.notifier.Notify(e.Message)
		return nil, e
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e := errx.Network(err)
		c.notifier.Notify(e.Message)
		return nil, e
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.fail(reqID, resp.StatusCode, raw)
	}

	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logx.Warn().Str("reqID", reqID).Err(err).Msg("api response is not a valid envelope")
		return nil, errx.New(err, errx.KindApplication, resp.StatusCode, errx.RequestFailedMessage)
	}

	// success=false is an application error even on HTTP 2xx.
	if !env.Success {
		e := errx.Application(env.Message, raw)
		if !c.suppress(e.Message) {
			c.notifier.Notify(e.Message)
		}
		return nil, e
	}

	return env.Data, nil
}

// serverMessage digs the display message out of a non-2xx body.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	default:
		return body.Msg
	}
}

// fail classifies a non-2xx response and applies the propagation policy:
// 401 tears down the session; server and client errors surface a message
// unless suppressed. No class is retried here.
func (c *Client) fail(reqID string, status int, raw []byte) error {
	kind, msg := errx.Classify(status, serverMessage(raw))
	e := errx.New(nil, kind, status, msg)
	e.Payload = raw

	logx.Warn().Str("reqID", reqID).Int("status", status).Str("kind", kind.String()).Msg("api request failed")

	switch kind {
	case errx.KindAuthExpired:
		// The request context may already be done; teardown must not be.
		c.sessions.Invalidate(context.Background(), msg)
		c.notifier.Notify(msg)
	case errx.KindServer:
		c.notifier.Notify(msg)
	default:
		if !c.suppress(msg) {
			c.notifier.Notify(msg)
		}
	}
	return e
}
