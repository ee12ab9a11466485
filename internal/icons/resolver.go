package icons

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shruggr/go-txpreview/internal/cache"
	"github.com/shruggr/go-txpreview/internal/metrics"
)

const maxLogoBytes = 4 << 20

// Resolver locates hosted chain logos, remembering which chains have one.
type Resolver struct {
	assetsURL  string
	httpClient *http.Client
	cache      *cache.RedisCache
	ttl        time.Duration
}

func NewResolver(assetsURL string, httpClient *http.Client, redisCache *cache.RedisCache, ttl time.Duration) *Resolver {
	return &Resolver{
		assetsURL:  strings.TrimRight(assetsURL, "/"),
		httpClient: httpClient,
		cache:      redisCache,
		ttl:        ttl,
	}
}

func (r *Resolver) LogoURL(chain string) string {
	return fmt.Sprintf("%s/blockchains/%s/info/logo.png", r.assetsURL, url.PathEscape(strings.ToLower(chain)))
}

// Exists reports whether the hosted logo answers a HEAD request with 2xx.
func (r *Resolver) Exists(ctx context.Context, chain string) bool {
	cacheKey := "icon:" + strings.ToLower(chain)

	var exists bool
	if r.cache.GetJSON(ctx, cacheKey, &exists) {
		return exists
	}

	exists, err := r.head(ctx, r.LogoURL(chain))
	if err != nil {
		slog.Debug("Logo lookup failed", "chain", chain, "error", err)
		return false
	}
	r.cache.SetJSON(ctx, cacheKey, exists, r.ttl)
	return exists
}

// Resolve returns the hosted logo URL, or the generated icon as a data URI.
func (r *Resolver) Resolve(ctx context.Context, chain string) string {
	if r.Exists(ctx, chain) {
		return r.LogoURL(chain)
	}
	metrics.Fallbacks.WithLabelValues("icon").Inc()
	return DataURI(chain)
}

// Fetch downloads and decodes the hosted logo.
func (r *Resolver) Fetch(ctx context.Context, chain string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.LogoURL(chain), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("logo", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("logo", "error").Inc()
		return nil, fmt.Errorf("logo host returned status %d", resp.StatusCode)
	}
	metrics.UpstreamRequests.WithLabelValues("logo", "ok").Inc()

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("malformed logo: %w", err)
	}
	return img, nil
}

// head only returns an error for transport failures; those are not cached.
func (r *Resolver) head(ctx context.Context, logoURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, logoURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("logo_head", "error").Inc()
		return false, err
	}
	resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues("logo_head", "ok").Inc()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
