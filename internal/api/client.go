package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/httpclient"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
	"github.com/getmentor/mentor-match-client/pkg/tracing"
)

const (
	// RequestIDHeader correlates a client call with backend logs
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 8 << 20
)

// ErrInvalidResponse is returned when a 2xx body does not match the expected
// entity shape
var ErrInvalidResponse = apperrors.ServerError("unexpected response shape")

// TokenSource supplies the bearer token for outgoing requests. An empty
// string means no token is held.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Options configures a Client
type Options struct {
	BaseURL    string
	HTTPClient httpclient.Client
	Tokens     TokenSource

	// OnUnauthorized runs when a request that carried a token is rejected
	// with 401
	OnUnauthorized func(ctx context.Context)
}

// Client is the single point of egress to the backend API. Every method is
// one round trip: no retries and no caching.
type Client struct {
	baseURL        string
	httpClient     httpclient.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	validate       *validator.Validate
}

// New creates a backend API client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient(httpclient.DefaultTimeout)
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     httpClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		validate:       newValidator(),
	}
}

// SetTokenSource replaces the token source. The session and the client
// reference each other, so one side is wired after construction.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// SetUnauthorizedHandler replaces the unauthorized hook
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

type tokenOverrideKey struct{}

// WithToken makes calls using ctx carry token instead of the session token.
// A 401 on such a call does not fire the unauthorized hook.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenOverrideKey{}, token)
}

// TokenFromContext returns the override token set by WithToken
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenOverrideKey{}).(string)
	return token, ok && token != ""
}

// request describes one backend call
type request struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	anonymous bool // never attach the bearer token
}

// response is a fully read backend response
type response struct {
	status       int
	header       http.Header
	body         []byte
	sessionToken bool // the bearer came from the token source
}

// do runs req and decodes a 2xx body into out, which may be nil
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return err
	}

	if resp.status < 200 || resp.status >= 300 {
		return c.failure(ctx, req, resp)
	}

	if out == nil {
		return nil
	}
	return c.decode(resp.body, out)
}

// roundTrip validates the payload, sends the request and reads the body.
// Only transport failures and invalid payloads are returned as errors.
func (c *Client) roundTrip(ctx context.Context, req request) (*response, error) {
	var payload io.Reader
	if req.body != nil {
		if err := c.validate.StructCtx(ctx, req.body); err != nil {
			return nil, validationError(err)
		}
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", req.operation, err)
		}
		payload = bytes.NewReader(encoded)
	}

	ctx, span := tracing.StartSpan(ctx, "api."+req.operation,
		attribute.String("http.request.method", req.method),
		attribute.String("url.path", req.path),
	)
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.url(req), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", req.operation, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	sessionToken := false
	if !req.anonymous {
		if token, ok := TokenFromContext(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		} else if c.tokens != nil {
			if token := c.tokens.Token(ctx); token != "" {
				httpReq.Header.Set("Authorization", "Bearer "+token)
				sessionToken = true
			}
		}
	}
	tracing.InjectHeaders(ctx, httpReq.Header)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		c.record(ctx, req, "network_error", duration, zap.String("request_id", requestID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, apperrors.NetworkError(req.operation, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		c.record(ctx, req, "network_error", duration, zap.String("request_id", requestID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failure")
		return nil, apperrors.NetworkError(req.operation, err)
	}

	status := strconv.Itoa(httpResp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	if httpResp.StatusCode >= 400 {
		span.SetStatus(codes.Error, status)
	}
	c.record(ctx, req, status, duration,
		zap.String("request_id", requestID),
		zap.Int("status_code", httpResp.StatusCode))

	return &response{
		status:       httpResp.StatusCode,
		header:       httpResp.Header,
		body:         body,
		sessionToken: sessionToken,
	}, nil
}

func (c *Client) url(req request) string {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	return target
}

func (c *Client) record(ctx context.Context, req request, status string, duration float64, fields ...zap.Field) {
	metrics.APIRequestDuration.WithLabelValues(req.operation, status).Observe(duration)
	metrics.APIRequestTotal.WithLabelValues(req.operation, status).Inc()

	if status == "network_error" || strings.HasPrefix(status, "5") {
		status = "error"
	}
	logger.LogAPICall(ctx, "backend", req.operation, status, duration,
		append(fields, zap.String("method", req.method), zap.String("path", req.path))...)
}

// failure converts a non-2xx response into an APIError and fires the
// unauthorized hook when a held token was rejected
func (c *Client) failure(ctx context.Context, req request, resp *response) error {
	apiErr := apperrors.NewAPIError(resp.status, backendMessage(resp.body))

	if resp.status == http.StatusUnauthorized && resp.sessionToken && c.onUnauthorized != nil {
		logger.Warn("Backend rejected session token",
			zap.String("operation", req.operation))
		c.onUnauthorized(ctx)
	}

	return apiErr
}

// decode parses body into out and validates the resulting entity shape
func (c *Client) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := c.checkShape(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// errorBody covers the error envelopes the backend and its proxies produce
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// backendMessage extracts the human readable message from an error body.
// FastAPI request validation failures carry a list of {msg} objects.
func backendMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	if len(parsed.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
			return detail
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(parsed.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if parsed.Error != "" {
		return parsed.Error
	}
	return parsed.Message
}
