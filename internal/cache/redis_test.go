package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shruggr/go-txpreview/internal/config"
)

type entry struct {
	Name string `json:"name"`
}

func setupCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestJSONRoundTrip(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	c.SetJSON(ctx, "chains", []entry{{Name: "eth"}}, time.Minute)

	var got []entry
	if !c.GetJSON(ctx, "chains", &got) {
		t.Fatal("Expected cache hit")
	}
	if len(got) != 1 || got[0].Name != "eth" {
		t.Errorf("Unexpected cached value: %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	if c.GetJSON(ctx, "chains", &got) {
		t.Error("Expected entry to expire")
	}
}

func TestCorruptEntryIsEvicted(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	mr.Set("bad", "{not json")

	var got entry
	if c.GetJSON(ctx, "bad", &got) {
		t.Fatal("Expected miss on corrupt entry")
	}
	if mr.Exists("bad") {
		t.Error("Expected corrupt entry to be deleted")
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := NewRedisCache(&config.Config{})
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	if c.Enabled() {
		t.Fatal("Expected cache without URL to be disabled")
	}

	ctx := context.Background()
	c.SetJSON(ctx, "k", entry{Name: "x"}, time.Minute)

	var got entry
	if c.GetJSON(ctx, "k", &got) {
		t.Error("Disabled cache must always miss")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on disabled cache failed: %v", err)
	}
}

func TestInvalidURL(t *testing.T) {
	if _, err := NewRedisCache(&config.Config{RedisURL: "://nope"}); err == nil {
		t.Error("Expected error for invalid Redis URL")
	}
}
