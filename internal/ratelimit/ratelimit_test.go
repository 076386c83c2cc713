package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestLimiter_Allow(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	limiter := NewLimiter(client, 3, time.Minute)
	ctx := context.Background()
	key := uuid.NewString() // fresh key per run

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	ok, err := limiter.Allow(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("request over the limit should be denied")
	}

	// A different key has its own window
	ok, err = limiter.Allow(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("fresh key should be allowed")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	limiter := NewLimiter(client, 1, time.Second)
	ctx := context.Background()
	key := uuid.NewString()

	ok, err := limiter.Allow(ctx, key)
	if err != nil || !ok {
		t.Fatalf("first request should be allowed: ok=%v err=%v", ok, err)
	}
	ok, _ = limiter.Allow(ctx, key)
	if ok {
		t.Fatal("second request should be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	ok, err = limiter.Allow(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("request after window expiry should be allowed")
	}
}

func TestLimiter_Middleware(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	limiter := NewLimiter(client, 2, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Unique remote addr per run so earlier runs don't interfere
	remoteAddr := uuid.NewString() + ":12345"

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 over the limit, got %d", w.Code)
	}
}
