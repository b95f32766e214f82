package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/metrics"
	"github.com/digitalworld/storefront-client/internal/token"
)

// InvalidatedHandler is told when the backend rejects the active session.
// The transport clears the token and reports; it never navigates or exits.
type InvalidatedHandler func(kind token.Kind)

// Client dispatches requests to the storefront API for exactly one session
// kind. The bearer token is read from storage at send time, not cached, so
// a rotation applies on the very next call.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	tokens        *token.Manager
	onInvalidated InvalidatedHandler
	logger        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithSessionInvalidatedHandler(h InvalidatedHandler) Option {
	return func(c *Client) {
		c.onInvalidated = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, tokens *token.Manager, opts ...Option) *Client {

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {

		if c.timeout <= 0 {
			c.timeout = 30 * time.Second
		}

		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: metrics.RoundTripper(otelhttp.NewTransport(http.DefaultTransport)),
		}
	}

	return c
}

func (c *Client) Kind() token.Kind {
	return c.tokens.Kind()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.BadRequestError("Failed to encode request body").WithError(err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.BadRequestError("Failed to build request").WithError(err)
	}

	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// Token is read from storage per request, never held in memory.
	tok, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}

	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	requestLogger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("http_method", method),
		slog.String("http_path", path),
		slog.String("session_kind", string(c.tokens.Kind())),
	)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		requestLogger.Warn("Request failed", slog.String("error", err.Error()))

		return errors.TransportError(fmt.Sprintf("Request to %s failed", path)).WithError(err)
	}

	defer resp.Body.Close()

	requestLogger.Info("Request completed",
		slog.Int("http_status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(ctx, requestLogger)
	}

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.TransportError("Failed to read response body").WithError(err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.DecodeError(fmt.Sprintf("Failed to decode response from %s", path)).WithError(err)
	}

	return nil
}

// handleUnauthorized clears the rejected token and notifies the
// composition root instead of forcing navigation from the transport.
func (c *Client) handleUnauthorized(ctx context.Context, logger *slog.Logger) error {

	logger.Warn("Session rejected by backend")
	metrics.SessionInvalidated()

	if err := c.tokens.Clear(ctx); err != nil {
		logger.Error("Failed to clear rejected token", slog.String("error", err.Error()))
	}

	if c.onInvalidated != nil {
		c.onInvalidated(c.tokens.Kind())
	}

	return errors.UnauthorizedError("Session is no longer valid")
}

type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) apiError(resp *http.Response) error {

	var body apiErrorBody

	raw, err := io.ReadAll(resp.Body)
	if err == nil && len(raw) > 0 {
		// Best effort; the backend does not always send JSON errors.
		_ = json.Unmarshal(raw, &body)
	}

	message := body.Message
	detail := ""

	if message == "" {
		message = body.Error
	} else if body.Error != "" && body.Error != body.Message {
		// Some routes send both; keep the human message up front and the
		// backend's error string as detail.
		detail = body.Error
	}

	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
	}

	var appErr *errors.AppError

	switch resp.StatusCode {
	case http.StatusNotFound:
		appErr = errors.NotFoundError(message)
	case http.StatusForbidden:
		appErr = errors.ForbiddenError(message)
	case http.StatusBadRequest:
		appErr = errors.BadRequestError(message)
	default:
		appErr = errors.APIError(message, resp.StatusCode)
	}

	if detail != "" {
		appErr = appErr.WithDetail(detail)
	}

	return appErr
}
