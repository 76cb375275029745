// Package client provides a thin HTTP client for the clicklar marketplace API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/clicklar/internal/metrics"
)

const tracerName = "github.com/donaldgifford/clicklar/internal/api/client"

// TokenSource supplies the bearer token attached to each request. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is a thin HTTP client for the marketplace API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	tracer     trace.Tracer
	duration   metric.Float64Histogram
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tracer:     otel.Tracer(tracerName),
	}
	// The global meter provider is a no-op unless telemetry export is set up.
	c.duration, _ = otel.Meter(tracerName).Float64Histogram(
		"clicklar.api.client.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of marketplace API requests."),
	)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource attaches a bearer token to every request that has one.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit caps outgoing requests with a token bucket. A non-positive
// perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// BaseURL returns the API origin the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodGet, path, nil, dst)
}

// post performs a POST request with a JSON body and decodes the response into dst.
func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPost, path, body, dst)
}

// put performs a PUT request with a JSON body and decodes the response into dst.
func (c *Client) put(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPut, path, body, dst)
}

// del performs a DELETE request and decodes the response into dst.
func (c *Client) del(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodDelete, path, nil, dst)
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) (err error) {
	route := routeLabel(path)
	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", route),
		),
	)
	status := "error"
	start := time.Now()
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(method, route, status).Inc()
		elapsed := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(method, route).Observe(elapsed)
		if c.duration != nil {
			c.duration.Record(ctx, elapsed, metric.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("http.route", route),
				attribute.String("http.response.status_code", status),
			))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("reading session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("sending request: %w", ctxErr)
		}
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s: %w", c.baseURL, ErrUnavailable)
		}
		return fmt.Errorf("sending request: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, respBody)
	}

	if dst == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		return fmt.Errorf("%w: empty body (HTTP %d)", ErrMalformedResponse, resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrMalformedResponse, err)
	}

	return nil
}

// apiSegments are the fixed path segments of the marketplace API. Any other
// segment is an identifier and is collapsed to {id} in metric and span names.
var apiSegments = map[string]struct{}{
	"services":        {},
	"public":          {},
	"private":         {},
	"mine":            {},
	"rate":            {},
	"categories":      {},
	"login":           {},
	"register":        {},
	"users":           {},
	"profile":         {},
	"change-password": {},
}

func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, ok := apiSegments[p]; !ok {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}

// errorBody is the structured error payload returned by the API.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Error
		if apiErr.Message == "" {
			apiErr.Message = eb.Message
		}
	}
	return apiErr
}
