// Package serp provides the search-provider client used for local
// business discovery.
package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

const defaultBaseURL = "https://serpapi.com/search"

// Client performs SERP provider searches.
type Client interface {
	Search(ctx context.Context, req Request) (*Results, error)
}

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	// ErrAuth means the API key was rejected. Never retried; aborts the run.
	ErrAuth ErrorKind = "auth"
	// ErrQuota means the account is out of searches. Never retried.
	ErrQuota ErrorKind = "quota"
	// ErrInvalid means the provider rejected the request itself.
	ErrInvalid ErrorKind = "invalid"
)

// ProviderError is a terminal (non-retryable) provider failure.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("serp: %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// IsTerminal reports whether err is a provider error that should abort
// the whole run rather than degrade a single channel.
func IsTerminal(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == ErrAuth || pe.Kind == ErrQuota
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default provider endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a SERP provider client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("serp", "search")
	}
	return c
}

// Search runs one provider search with retry on transient failures.
// Auth and quota failures return a *ProviderError without retrying.
func (c *httpClient) Search(ctx context.Context, req Request) (*Results, error) {
	if req.Query == "" {
		return nil, eris.New("serp: query is required")
	}
	if req.Location == "" {
		return nil, eris.New("serp: location is required")
	}
	switch req.Channel {
	case ChannelAds, ChannelMaps, ChannelOrganic:
	default:
		return nil, eris.Errorf("serp: unknown channel %q", req.Channel)
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Results, error) {
		return c.searchOnce(ctx, req)
	})
}

func (c *httpClient) searchOnce(ctx context.Context, req Request) (*Results, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(req), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serp: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "serp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, eris.Wrap(err, "serp: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "serp: unmarshal response")
	}
	if parsed.Error != "" {
		return nil, &ProviderError{Kind: ErrInvalid, StatusCode: resp.StatusCode, Message: parsed.Error}
	}

	return parseResults(req, &parsed), nil
}

func (c *httpClient) buildURL(req Request) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("q", req.Query)
	q.Set("location", req.Location)

	switch req.Channel {
	case ChannelMaps:
		q.Set("engine", "google_maps")
	default:
		q.Set("engine", "google")
	}
	if req.Page > 1 {
		q.Set("start", fmt.Sprintf("%d", (req.Page-1)*10))
	}

	return c.baseURL + "?" + q.Encode()
}

// statusError maps an HTTP failure to the retry taxonomy: 429/5xx are
// transient, 401 is auth, 403 is quota, other 4xx are invalid requests.
func (c *httpClient) statusError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}

	if resilience.IsTransientHTTPStatus(status) {
		return resilience.NewTransientError(
			eris.Errorf("serp: transient status %d: %s", status, msg), status)
	}

	switch status {
	case http.StatusUnauthorized:
		return &ProviderError{Kind: ErrAuth, StatusCode: status, Message: msg}
	case http.StatusForbidden, http.StatusPaymentRequired:
		return &ProviderError{Kind: ErrQuota, StatusCode: status, Message: msg}
	default:
		return &ProviderError{Kind: ErrInvalid, StatusCode: status, Message: msg}
	}
}
