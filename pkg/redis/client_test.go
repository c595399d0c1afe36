package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("expected first request allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
	if got := mock.expiries["sf:rate_limit:test-scope"]; got != 1000 {
		t.Fatalf("expected window armed at 1000ms, got %d", got)
	}
	if mock.evals != 1 {
		t.Fatalf("expected EVAL fallback on first use, got %d", mock.evals)
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if mock.evals != 1 {
		t.Fatalf("expected EVALSHA once the script is cached, got %d evals", mock.evals)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}

	if _, _, err := client.FixedWindowAllow(ctx, "test-scope", 2, 0); err == nil {
		t.Fatal("expected zero window to fail")
	}
}

func TestCompareAndDelete(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.LockKey("cron-worker")
	mock.data[key] = "owner-a"

	deleted, err := client.CompareAndDelete(ctx, key, "owner-b")
	if err != nil || deleted {
		t.Fatalf("foreign owner must not delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = client.CompareAndDelete(ctx, key, "owner-a")
	if err != nil || !deleted {
		t.Fatalf("owner delete failed: deleted=%v err=%v", deleted, err)
	}
	if _, ok := mock.data[key]; ok {
		t.Fatal("expected key removed")
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if _, err := client.CompareAndDelete(context.Background(), "k", "v"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := client.Ping(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatal("expected ping error from uninitialized client")
	}
}

func TestCounterTreatsMissingKeyAsZero(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CounterKey("visitors")
	count, err := client.Counter(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero for missing counter, got %d", count)
	}

	if err := client.Set(ctx, key, 41, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	count, err = client.Counter(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 41 {
		t.Fatalf("expected 41, got %d", count)
	}
}

func TestCacheRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	cache, err := NewCache(client, time.Hour)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	var out []string
	hit, err := cache.Load(ctx, "best-sellers", &out)
	if err != nil || hit {
		t.Fatalf("expected clean miss, hit=%v err=%v", hit, err)
	}

	if err := cache.Store(ctx, "best-sellers", []string{"a", "b"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	hit, err = cache.Load(ctx, "best-sellers", &out)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if len(out) != 2 || out[0] != "a" {
		t.Fatalf("unexpected cached value %v", out)
	}

	if err := cache.Invalidate(ctx, "best-sellers"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if _, ok := mock.data["sf:cache:best-sellers"]; ok {
		t.Fatal("expected cache key removed")
	}
}

func TestNewCacheRequiresTTL(t *testing.T) {
	if _, err := NewCache(&Client{}, 0); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "sf:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "sf:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.CounterKey("hits"); got != "sf:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := client.CacheKey("best-sellers"); got != "sf:cache:best-sellers" {
		t.Fatalf("unexpected cache key %s", got)
	}
	if got := client.IdempotencyKey("scope", ""); got != "sf:idempotency:scope" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data     map[string]string
	incr     map[string]int64
	expiries map[string]int64
	loaded   map[string]bool
	evals    int
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:     make(map[string]string),
		incr:     make(map[string]int64),
		expiries: make(map[string]int64),
		loaded:   make(map[string]bool),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) EvalSha(ctx context.Context, sha string, keys []string, args ...any) *redis.Cmd {
	if !m.loaded[sha] {
		return redis.NewCmdResult(nil, errors.New("NOSCRIPT No matching script. Please use EVAL."))
	}
	return m.exec(sha, keys, args)
}

func (m *mockCmdable) Eval(ctx context.Context, src string, keys []string, args ...any) *redis.Cmd {
	m.evals++
	sha := redis.NewScript(src).Hash()
	m.loaded[sha] = true
	return m.exec(sha, keys, args)
}

func (m *mockCmdable) exec(sha string, keys []string, args []any) *redis.Cmd {
	switch sha {
	case fixedWindowScript.sha:
		m.incr[keys[0]]++
		if m.incr[keys[0]] == 1 {
			m.expiries[keys[0]] = args[0].(int64)
		}
		return redis.NewCmdResult(m.incr[keys[0]], nil)
	case compareAndDeleteScript.sha:
		if m.data[keys[0]] != args[0].(string) {
			return redis.NewCmdResult(int64(0), nil)
		}
		delete(m.data, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(nil, fmt.Errorf("unknown script %s", sha))
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://:secret@cache.internal:6380/2",
		DB:          5,
		PoolSize:    20,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.Password != "secret" {
		t.Fatalf("url fields not applied: %+v", opts)
	}
	if opts.DB != 2 {
		t.Fatalf("url db should win over config, got %d", opts.DB)
	}
	if opts.PoolSize != 20 || opts.DialTimeout != 3*time.Second {
		t.Fatalf("config should fill unset options: pool=%d dial=%s", opts.PoolSize, opts.DialTimeout)
	}

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	byAddr, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 1})
	if err != nil || byAddr.Addr != "localhost:6379" || byAddr.DB != 1 {
		t.Fatalf("address config not applied: %+v %v", byAddr, err)
	}
}
