package api

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

	"golang.org/x/time/rate"

	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// Operation names used in errors and metrics.
const (
	OpProducts    = "products"
	OpProduct     = "product"
	OpSubmitOrder = "submit_order"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://larek-api.nomoreparties.co/api/weblarek.
	BaseURL string

	// CDNURL is prefixed to image paths.
	CDNURL string

	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration

	// RateLimit caps requests per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter burst. Zero means 1.
	Burst int

	// HTTPClient overrides the default client; Timeout is ignored then.
	HTTPClient *http.Client

	// Metrics receives request durations. Nil disables them.
	Metrics *Metrics
}

// Client calls the storefront API.
type Client struct {
	baseURL    string
	cdn        string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", ErrInvalidConfig, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cdn:        cfg.CDNURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Products fetches the catalog.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var list model.ProductList
	if err := c.do(ctx, OpProducts, http.MethodGet, "/product", nil, &list); err != nil {
		return nil, err
	}
	items := make([]model.Product, len(list.Items))
	for i, p := range list.Items {
		p.Image = c.cdn + strings.Replace(p.Image, ".svg", ".png", 1)
		items[i] = p
	}
	return items, nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	if err := c.do(ctx, OpProduct, http.MethodGet, "/product/"+url.PathEscape(id), nil, &p); err != nil {
		return model.Product{}, err
	}
	p.Image = c.cdn + p.Image
	return p, nil
}

// SubmitOrder places an order.
func (c *Client) SubmitOrder(ctx context.Context, order model.OrderPayload) (model.OrderResult, error) {
	var res model.OrderResult
	if err := c.do(ctx, OpSubmitOrder, http.MethodPost, "/order", order, &res); err != nil {
		return model.OrderResult{}, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, start, err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", op, err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
