package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheFromClient(client, opts...), mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v; want v, true, nil", data, hit, err)
	}
	if !mr.Exists("kgraph:k") {
		t.Error("key stored without default prefix")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, WithDefaultTTL(time.Minute))

	if err := c.Set(ctx, "short", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "default", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("kgraph:default"); got != time.Minute {
		t.Errorf("default TTL = %v, want 1m", got)
	}

	mr.FastForward(2 * time.Second)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired key should miss")
	}
	if _, hit, _ := c.Get(ctx, "default"); !hit {
		t.Error("key with default TTL expired early")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, WithPrefix("test:"))

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other", "keep"); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other" {
		t.Errorf("keys after Clear = %v, want [other]", keys)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Error("expected connection error")
	}
}
