package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ppiankov/litmap/internal/cache"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/util"
	"github.com/ppiankov/litmap/internal/worker"
)

// Client is the shared GET client for the public APIs litmap talks to
// (Wikipedia, Google Books, Nominatim). Every request goes through the
// response cache, the per-host rate limiter and a robots.txt check.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	store      cache.Cache
	limiter    *worker.HostLimiter
	robots     *util.RobotsChecker
}

// NewClient creates a fetch client from the HTTP configuration
func NewClient(cfg model.HTTPConfig, store cache.Cache, limiter *worker.HostLimiter, robots *util.RobotsChecker) *Client {
	if store == nil {
		store = cache.Nop{}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		store:     store,
		limiter:   limiter,
		robots:    robots,
	}
}

// Get retrieves the raw body for a URL. The namespace scopes cache keys
// per API so a Wikipedia response never shadows a geocoding one.
func (c *Client) Get(ctx context.Context, namespace, rawURL string) ([]byte, error) {
	key := cache.Key(namespace, rawURL)
	if body, found := c.store.Get(key); found {
		return body, nil
	}

	if c.robots != nil {
		allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
		if c.limiter != nil {
			if err := c.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}
	} else if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	_ = c.store.Set(key, body, 0)

	return body, nil
}

// GetJSON retrieves a URL and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, namespace, rawURL string, out interface{}) error {
	body, err := c.Get(ctx, namespace, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
