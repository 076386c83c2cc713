package ratelimit

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Limiter is a fixed-window request counter backed by redis. Each key gets
// at most limit requests per window.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLimiter creates a limiter allowing limit requests per window
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow reports whether the request identified by key is within the limit
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in this window starts the clock
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.limit), nil
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
// Redis failures let the request through: the limiter protects the login
// endpoint, it is not a correctness gate.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		ok, err := l.Allow(r.Context(), ip+":"+r.URL.Path)
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			http.Error(w, `{"error": "Too many requests, try again later"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
