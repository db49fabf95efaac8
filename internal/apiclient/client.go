package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/admin-console/pkg/circuitbreaker"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// TokenSource yields the bearer token of the current session. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Doer issues JSON requests against the admin API.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
	Download(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Client is the admin REST API adapter: base URL, bearer header, breaker
// and request metrics.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	breaker    *circuitbreaker.CircuitBreaker
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker shares a breaker between clients talking to the same API.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewBreaker builds a breaker that only counts transport failures and 5xx answers.
func NewBreaker(name string, maxFailures uint32, timeout time.Duration, m *metrics.Metrics) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        name,
		MaxFailures: maxFailures,
		Timeout:     timeout,
		IsFailure: func(err error) bool {
			code := errors.CodeOf(err)
			return code == errors.ErrTransport || code == errors.ErrInternal
		},
		OnChange: func(name, _, to string) {
			if m == nil {
				return
			}
			v := 0.0
			if to == "open" {
				v = 1
			}
			m.APIBreakerState.WithLabelValues(name).Set(v)
		},
	})
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// Download returns the raw response body without interpreting it.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var payload []byte
	err := c.do(ctx, http.MethodGet, path, query, nil, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		payload = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.NewBadRequest("invalid request body", err)
		}
		reader = bytes.NewReader(raw)
	}

	return c.do(ctx, method, path, query, reader, func(r io.Reader) error {
		if out == nil {
			_, err := io.Copy(io.Discard, r)
			return err
		}
		if err := json.NewDecoder(r).Decode(out); err != nil && !stderrors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, read func(io.Reader) error) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	call := func() error {
		return c.roundTrip(ctx, method, path, endpoint, body, read)
	}
	if c.breaker == nil {
		return call()
	}

	err := c.breaker.Execute(call)
	if stderrors.Is(err, circuitbreaker.ErrOpen) {
		return errors.Transport(err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, endpoint string, body io.Reader, read func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Internal(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return errors.Internal(fmt.Errorf("read session token: %w", err))
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observe(method, path, resp, start)
	if err != nil {
		return errors.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return read(resp.Body)
}

func (c *Client) observe(method, path string, resp *http.Response, start time.Time) {
	if c.metrics == nil {
		return
	}
	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	label := endpointLabel(path)
	c.metrics.APIRequests.WithLabelValues(method, label, status).Inc()
	c.metrics.APILatency.WithLabelValues(method, label).Observe(time.Since(start).Seconds())
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError maps a non-2xx answer onto the console error taxonomy,
// keeping the server's message when it sent one.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	cause := fmt.Errorf("admin api returned status %d", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid request"
		}
		return errors.NewBadRequest(msg, cause)
	case resp.StatusCode == http.StatusUnauthorized:
		return withMessage(errors.Unauthorized(cause), msg)
	case resp.StatusCode == http.StatusForbidden:
		return withMessage(errors.Forbidden(cause), msg)
	case resp.StatusCode == http.StatusNotFound:
		if msg == "" {
			return errors.NewNotFound("resource", cause)
		}
		return &errors.AppError{Code: errors.ErrNotFound, Message: msg, Err: cause}
	default:
		return withMessage(errors.Internal(cause), msg)
	}
}

func withMessage(err *errors.AppError, msg string) *errors.AppError {
	if msg != "" {
		err.Message = msg
	}
	return err
}

// endpointLabel collapses record ids so metrics keep a bounded label set.
func endpointLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if looksLikeID(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func looksLikeID(seg string) bool {
	if len(seg) < 8 {
		return false
	}
	for _, r := range seg {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
