package githubsource

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultETagTTL = 7 * 24 * time.Hour

// ETagCache remembers the ETag last seen for a document URL, so a rebuild
// can issue a conditional fetch and skip re-parsing unchanged content.
type ETagCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewETagCache constructs an ETagCache backed by client.
func NewETagCache(client *redis.Client) *ETagCache {
	return &ETagCache{client: client, ttl: defaultETagTTL}
}

func cacheKey(url URL) string {
	return fmt.Sprintf("githubsource:etag:%s/%s/%s@%s", url.Owner, url.Repo, url.Path, url.Reference)
}

// Get returns the ETag last stored for url, or "" if none is cached.
func (c *ETagCache) Get(ctx context.Context, url URL) (string, error) {
	etag, err := c.client.Get(ctx, cacheKey(url)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("githubsource: read etag cache: %w", err)
	}
	return etag, nil
}

// Set stores etag for url, refreshing its TTL.
func (c *ETagCache) Set(ctx context.Context, url URL, etag string) error {
	if etag == "" {
		return nil
	}
	if err := c.client.Set(ctx, cacheKey(url), etag, c.ttl).Err(); err != nil {
		return fmt.Errorf("githubsource: write etag cache: %w", err)
	}
	return nil
}

// FetchDocument performs a conditional fetch: it consults the cache for a
// prior ETag, issues a conditional GET, and on success stores the fresh
// ETag. It returns IsNotModified(err) == true when the document has not
// changed since the cached ETag was recorded.
func FetchDocument(ctx context.Context, client *Client, cache *ETagCache, url URL) (string, error) {
	cached, err := cache.Get(ctx, url)
	if err != nil {
		return "", err
	}

	result, err := client.FetchWithETag(ctx, url, cached)
	if err != nil {
		return "", err
	}
	if result.NotModified {
		return "", newError(NotModified, url.String())
	}

	if err := cache.Set(ctx, url, result.ETag); err != nil {
		return "", err
	}
	return result.Content, nil
}
