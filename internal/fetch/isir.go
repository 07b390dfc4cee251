package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ISIRClient queries the insolvency registry. Lookups are cached and rate
// limited; the registry is a shared public service and a full build issues
// one lookup per company.
type ISIRClient struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      *gocache.Cache
	limiter    *rate.Limiter
}

func NewISIRClient(baseURL string, requestsPerSecond float64, burst int, cacheTTL time.Duration) *ISIRClient {
	if burst <= 0 {
		burst = 1
	}
	return &ISIRClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

type isirResponse struct {
	Items []json.RawMessage `json:"items"`
}

// Insolvent reports whether any insolvency proceeding exists for the company.
func (c *ISIRClient) Insolvent(ctx context.Context, ico string) (bool, error) {
	if v, ok := c.cache.Get(ico); ok {
		return v.(bool), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	u := fmt.Sprintf("%s/subjects?%s", c.BaseURL, url.Values{"ico": {ico}, "limit": {"1"}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("isir lookup for %s: %w", ico, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Treat lookup failures as not-insolvent; cached so a flaky
		// registry is not hammered during a build.
		c.cache.SetDefault(ico, false)
		return false, fmt.Errorf("isir lookup for %s: unexpected status %s", ico, resp.Status)
	}

	var body isirResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.cache.SetDefault(ico, false)
		return false, fmt.Errorf("isir lookup for %s: decode: %w", ico, err)
	}
	insolvent := len(body.Items) > 0
	c.cache.SetDefault(ico, insolvent)
	return insolvent, nil
}

// batchWorkers bounds the concurrent ISIR lookups of one build.
const batchWorkers = 4

// BatchCheck looks up all given ids with bounded concurrency and returns the
// insolvent ones. Individual lookup failures are logged and treated as
// not-insolvent; the batch itself only fails on context cancellation.
func (c *ISIRClient) BatchCheck(ctx context.Context, icos []string) (map[string]bool, error) {
	result := make(map[string]bool, len(icos))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for _, ico := range icos {
		ico := ico
		g.Go(func() error {
			insolvent, err := c.Insolvent(ctx, ico)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("isir check failed", "ico", ico, "err", err)
				return nil
			}
			if insolvent {
				mu.Lock()
				result[ico] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("isir batch check done", "checked", len(icos), "insolvent", len(result))
	return result, nil
}
