package noves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shruggr/go-txpreview/internal/metrics"
	"github.com/shruggr/go-txpreview/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNotFound = errors.New("not found")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("noves returned status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Translator is the subset of the Translate EVM API this service consumes.
type Translator interface {
	Chains(ctx context.Context) ([]Chain, error)
	Transaction(ctx context.Context, chain, txHash string) (*Transaction, error)
	Describe(ctx context.Context, chain, txHash string) (*Description, error)
}

type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	maxTries      uint
	retryInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		maxTries:      3,
		retryInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Chains(ctx context.Context) ([]Chain, error) {
	body, err := c.get(ctx, "chains", "/evm/chains")
	if err != nil {
		return nil, err
	}

	var chains []Chain
	if err := json.Unmarshal(body, &chains); err != nil {
		return nil, fmt.Errorf("malformed chains response: %w", err)
	}
	return chains, nil
}

func (c *Client) Transaction(ctx context.Context, chain, txHash string) (*Transaction, error) {
	path := fmt.Sprintf("/evm/%s/tx/%s", url.PathEscape(chain), url.PathEscape(txHash))
	body, err := c.get(ctx, "transaction", path)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{}
	if err := json.Unmarshal(body, tx); err != nil {
		return nil, fmt.Errorf("malformed transaction response: %w", err)
	}
	tx.Raw = body
	return tx, nil
}

func (c *Client) Describe(ctx context.Context, chain, txHash string) (*Description, error) {
	path := fmt.Sprintf("/evm/%s/describeTx/%s", url.PathEscape(chain), url.PathEscape(txHash))
	body, err := c.get(ctx, "describe", path)
	if err != nil {
		return nil, err
	}

	desc := &Description{}
	if err := json.Unmarshal(body, desc); err != nil {
		return nil, fmt.Errorf("malformed describe response: %w", err)
	}
	return desc, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "noves."+endpoint)
	defer span.End()
	span.SetAttributes(attribute.String("noves.path", path))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = c.retryInterval * 10

	notify := func(err error, d time.Duration) {
		slog.Debug("Retrying Noves request", "endpoint", endpoint, "error", err, "backoff", d)
	}

	start := time.Now()
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.do(ctx, path)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify))
	metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Body: truncate(string(body), 256)}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, apiErr
	}
	return nil, backoff.Permanent(apiErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
