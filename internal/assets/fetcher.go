package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/chime/internal/log"
)

// ErrNotFound is returned when a location does not exist.
var ErrNotFound = errors.New("asset not found")

// ErrTooLarge is returned when a response body exceeds maxBodySize.
var ErrTooLarge = errors.New("exceeds 64MB")

// Fetcher retrieves the raw bytes behind a location. Locations are relative
// to the fetcher's root unless they are absolute URLs.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FSFetcher reads locations from a filesystem.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.Contains(location, "://") {
		return nil, fmt.Errorf("fetching %s: remote locations need a base URL", location)
	}

	// fs.FS paths are slash-separated and unrooted
	name := path.Clean(strings.TrimPrefix(location, "/"))
	data, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("fetching %s: %w", location, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	return data, nil
}

// maxBodySize caps a single fetched document or audio file (64MB).
const maxBodySize = 64 << 20

// HTTPFetcher fetches locations relative to a base URL.
type HTTPFetcher struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher resolving locations against baseURL.
// A zero timeout means requests are bounded only by the caller's context.
// If client is nil, http.DefaultClient is used.
func NewHTTPFetcher(baseURL string, client *http.Client, timeout time.Duration) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{base: base, client: client, timeout: timeout}, nil
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing location %s: %w", location, err)
	}
	target := f.base.ResolveReference(ref).String()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", target, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug(log.CatAssets, "Failed to close response body", "url", target, "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching %s: %w", target, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", target, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("reading %s: %w", target, ErrTooLarge)
	}
	return data, nil
}

// CachingFetcher keeps fetched bytes in memory for the rest of the session.
// Entries expire after the configured TTL; nothing is written to disk.
type CachingFetcher struct {
	next  Fetcher
	cache *cache.Cache
}

// NewCachingFetcher wraps next with an in-memory cache. A non-positive ttl
// returns next unchanged.
func NewCachingFetcher(next Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return next
	}
	return &CachingFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Fetch implements Fetcher. Errors are never cached.
func (f *CachingFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if v, ok := f.cache.Get(location); ok {
		log.Debug(log.CatAssets, "Fetch cache hit", "location", location)
		return v.([]byte), nil
	}
	data, err := f.next.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	f.cache.Set(location, data, cache.DefaultExpiration)
	return data, nil
}
