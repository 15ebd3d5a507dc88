package githubsource

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestRedisClient connects to a Redis instance for integration testing,
// skipping the test when one isn't reachable. Set REDIS_ADDR to point at a
// non-default instance.
func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v. Set REDIS_ADDR to run this test", addr, err)
	}
	return client
}

func TestETagCacheRoundTrip(t *testing.T) {
	client := newTestRedisClient(t)
	cache := NewETagCache(client)
	ctx := context.Background()
	url := URL{Owner: "ramate-io", Repo: "oac", Path: "README.md", Reference: "main"}
	defer client.Del(ctx, cacheKey(url))

	if got, err := cache.Get(ctx, url); err != nil || got != "" {
		t.Fatalf("Get() (before Set) = (%q, %v), want empty", got, err)
	}

	if err := cache.Set(ctx, url, `"abc123"`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `"abc123"` {
		t.Errorf("Get() = %q, want %q", got, `"abc123"`)
	}
}
