package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sportshop/frontend/internal/page"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/metrics"
)

const csrfHeader = "X-CSRFToken"

// Params groups dependencies for the storefront API client.
type Params struct {
	BaseURL    string
	Document   page.Document
	HTTPClient *http.Client
	Logger     *logger.Logger
	Metrics    *metrics.RequestMetrics
}

// Client issues JSON requests against the storefront server. Requests are not
// retried and in-flight requests are never cancelled by the client itself;
// callers decide what to do with a failed result.
type Client struct {
	baseURL string
	http    *http.Client
	doc     page.Document
	logg    *logger.Logger
	metrics *metrics.RequestMetrics
}

// NewClient builds an API client with the required dependencies.
func NewClient(params Params) (*Client, error) {
	if params.Document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(params.BaseURL), "/"),
		http:    httpClient,
		doc:     params.Document,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// BaseURL returns the normalized server base URL, empty for same-origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends a JSON body with the page CSRF token and decodes the response.
func (c *Client) PostJSON(ctx context.Context, operation, path string, body any, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
	}
	return c.do(ctx, operation, http.MethodPost, path, payload, dest)
}

// PostEmpty sends a bodiless POST with the page CSRF token.
func (c *Client) PostEmpty(ctx context.Context, operation, path string, dest any) error {
	return c.do(ctx, operation, http.MethodPost, path, nil, dest)
}

// GetJSON fetches and decodes a JSON resource. No CSRF token is attached.
func (c *Client) GetJSON(ctx context.Context, operation, path string, dest any) error {
	return c.do(ctx, operation, http.MethodGet, path, nil, dest)
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload []byte, dest any) error {
	ctx = c.logg.WithOperation(ctx, operation)
	start := time.Now()
	err := c.once(ctx, method, path, payload, dest)
	c.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(operation)
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "storefront request failed")
		return err
	}
	c.metrics.IncSuccess(operation)
	c.logg.Debug(ctx, "storefront request completed")
	return nil
}

func (c *Client) once(ctx context.Context, method, path string, payload []byte, dest any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Token is read from the page on every call; a navigation may have
		// rotated it since the previous request.
		req.Header.Set(csrfHeader, c.doc.CSRFToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejectionFromStatus(resp)
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "decode response")
	}
	return nil
}

// rejectionFromStatus distinguishes a structured server rejection from a plain
// transport-level failure. Django error responses carry {"error": "..."} with
// a 4xx status.
func rejectionFromStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return pkgerrors.New(pkgerrors.CodeServerRejected, envelope.Error).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return pkgerrors.New(pkgerrors.CodeNetwork, "unexpected response").
		WithDetails(map[string]any{"status": resp.StatusCode})
}
