package jolpica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"qualigap/internal/logging"
)

// ErrStatus reports a non-retryable HTTP status from the provider.
var ErrStatus = errors.New("unexpected provider status")

const (
	pageLimit           = "100"
	maxBodyBytes        = 8 << 20
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Source defines the provider operations used by the collector.
type Source interface {
	Schedule(ctx context.Context, season int) ([]Event, error)
	Qualifying(ctx context.Context, season, round int) (*Qualifying, error)
}

// Stats counts how requests were served.
type Stats struct {
	Requests  int64 `json:"requests"`
	CacheHits int64 `json:"cache_hits"`
	Retries   int64 `json:"retries"`
}

// Client provides access to the Jolpica-F1 (Ergast-compatible) API.
type Client struct {
	baseURL      string
	userAgent    string
	maxRetries   int
	retryBackoff time.Duration
	httpClient   *http.Client
	cache        Cache
	logger       *slog.Logger

	requests  atomic.Int64
	cacheHits atomic.Int64
	retries   atomic.Int64
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithCache routes reads through the supplied response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithRetries sets how many times throttled or failed requests are retried and
// the initial backoff between attempts.
func WithRetries(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff > 0 {
			c.retryBackoff = backoff
		}
	}
}

// WithLogger attaches a logger for cache and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "jolpica")
	}
}

// New creates a provider client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("provider base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse provider base url: %w", err)
	}
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    "qualigap",
		maxRetries:   3,
		retryBackoff: defaultRetryBackoff,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Stats returns request counters accumulated since the client was created.
func (c *Client) Stats() Stats {
	return Stats{
		Requests:  c.requests.Load(),
		CacheHits: c.cacheHits.Load(),
		Retries:   c.retries.Load(),
	}
}

// Schedule returns the championship rounds of a season in round order.
func (c *Client) Schedule(ctx context.Context, season int) ([]Event, error) {
	if season <= 0 {
		return nil, errors.New("season must be positive")
	}
	var payload mrEnvelope
	path := fmt.Sprintf("/%d.json", season)
	if err := c.fetch(ctx, path, &payload, func() bool { return len(payload.MRData.RaceTable.Races) > 0 }); err != nil {
		return nil, fmt.Errorf("fetch %d schedule: %w", season, err)
	}
	events := make([]Event, 0, len(payload.MRData.RaceTable.Races))
	for _, race := range payload.MRData.RaceTable.Races {
		event, err := race.event()
		if err != nil {
			return nil, fmt.Errorf("decode %d schedule: %w", season, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Qualifying returns the qualifying classification of one round. Rounds that
// have not been run yet return an empty result set without error.
func (c *Client) Qualifying(ctx context.Context, season, round int) (*Qualifying, error) {
	if season <= 0 {
		return nil, errors.New("season must be positive")
	}
	if round <= 0 {
		return nil, errors.New("round must be positive")
	}
	var payload mrEnvelope
	path := fmt.Sprintf("/%d/%d/qualifying.json", season, round)
	keep := func() bool {
		races := payload.MRData.RaceTable.Races
		return len(races) > 0 && len(races[0].QualifyingResults) > 0
	}
	if err := c.fetch(ctx, path, &payload, keep); err != nil {
		return nil, fmt.Errorf("fetch %d round %d qualifying: %w", season, round, err)
	}
	result := &Qualifying{Season: season, Round: round}
	if races := payload.MRData.RaceTable.Races; len(races) > 0 {
		result.Name = strings.TrimSpace(races[0].RaceName)
		result.Results = races[0].QualifyingResults
	}
	return result, nil
}

// fetch decodes the response for path into out. Bodies are stored in the cache
// only when keep reports the decoded payload as complete.
func (c *Client) fetch(ctx context.Context, path string, out any, keep func() bool) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse provider url: %w", err)
	}
	params := url.Values{}
	params.Set("limit", pageLimit)
	endpoint.RawQuery = params.Encode()
	key := endpoint.String()

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read cache: %w", err)
		}
		if ok {
			if err := json.Unmarshal(body, out); err == nil {
				c.cacheHits.Add(1)
				c.logger.Debug("served from cache", logging.String("url", key))
				return nil
			}
			logging.WarnWithContext(c.logger, "cached response unreadable", "cache_decode_failed",
				logging.String("url", key),
				logging.String(logging.FieldErrorHint, "run 'qualigap cache clear' if this repeats"),
				logging.String(logging.FieldImpact, "response will be fetched again"))
		}
	}

	body, err := c.get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	if c.cache != nil && keep() {
		if err := c.cache.Put(ctx, key, body); err != nil {
			return fmt.Errorf("write cache: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	delay := c.retryBackoff
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		c.requests.Add(1)
		requestStart := time.Now()
		resp, err := c.httpClient.Do(req)
		latency := time.Since(requestStart)
		if err != nil {
			return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
		}

		if resp.StatusCode == http.StatusOK {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("read response body: %w", readErr)
			}
			c.logger.Debug("provider request complete",
				logging.String("url", endpoint),
				logging.Duration("latency", latency))
			return body, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()

		if !retryableStatus(resp.StatusCode) || attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w: %d from %s (latency=%v)", ErrStatus, resp.StatusCode, endpoint, latency)
		}

		wait := retryAfter(resp.Header.Get("Retry-After"), delay)
		c.retries.Add(1)
		c.logger.Info("provider throttled request; retrying",
			logging.Int("status", resp.StatusCode),
			logging.Int("attempt", attempt+1),
			logging.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
		if next := delay * 2; next <= maxRetryBackoff {
			delay = next
		}
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// retryAfter honours a Retry-After header given in seconds, falling back to
// the current backoff.
func retryAfter(header string, fallback time.Duration) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return fallback
	}
	wait := time.Duration(seconds) * time.Second
	if wait > maxRetryBackoff {
		wait = maxRetryBackoff
	}
	return wait
}
