// Package client talks to the shop API: catalogue listing, product lookup and
// order submission. Each call is a single attempt.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weblarek/internal/model"

	"github.com/rs/zerolog"
)

// APIError is returned for a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shop API returned %d: %s", e.StatusCode, e.Message)
}

// Config holds the client endpoints.
type Config struct {
	// APIURL is the API base, e.g. http://localhost:8080/api/weblarek.
	APIURL string
	// CDNURL is prepended to product image paths.
	CDNURL  string
	APIKey  string
	Timeout time.Duration
}

// Client is the shop API client.
type Client struct {
	apiURL     string
	cdnURL     string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a shop API client.
func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		cdnURL:     strings.TrimRight(cfg.CDNURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "shop-client").Logger(),
	}
}

// FetchCatalog retrieves the whole catalogue with image URLs resolved against the CDN.
func (c *Client) FetchCatalog(ctx context.Context) ([]model.Product, error) {
	var resp model.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/product/", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch catalogue: %w", err)
	}

	items := make([]model.Product, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = c.withCDN(item)
	}

	c.logger.Debug().Int("count", len(items)).Msg("catalogue fetched")

	return items, nil
}

// FetchProduct retrieves a single product.
func (c *Client) FetchProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	p = c.withCDN(p)
	return &p, nil
}

// SubmitOrder sends a snapshotted draft order.
func (c *Client) SubmitOrder(ctx context.Context, order model.Order) (*model.OrderResult, error) {
	var result model.OrderResult
	if err := c.do(ctx, http.MethodPost, "/order", order, &result); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	c.logger.Info().
		Str("order_id", result.ID).
		Float64("total", result.Total).
		Msg("order accepted")

	return &result, nil
}

func (c *Client) withCDN(p model.Product) model.Product {
	if p.Image != "" && c.cdnURL != "" && !strings.HasPrefix(p.Image, "http") {
		p.Image = c.cdnURL + "/" + strings.TrimLeft(p.Image, "/")
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("shop API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body model.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
