package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-client admission-control policy
// backed by Redis. The first request in a window creates a counter
// with the window as its TTL; once the counter passes Max, requests
// are rejected until the key expires.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
}

func NewRateLimiter(rdb *redis.Client, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{rdb: rdb, window: window, max: max}
}

// Allow records a hit for the client and reports whether it is within
// the ceiling for the current window.
func (l *RateLimiter) Allow(r *http.Request) (bool, error) {
	key := "ratelimit:" + clientIP(r)
	ctx := r.Context()

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.max), nil
}

// Middleware applies the limiter ahead of routing.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := l.Allow(r)
		if err != nil {
			log.Printf("rate limiter error: %v", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		if !ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts RemoteAddr as rewritten by chi's RealIP middleware,
// which must run before the limiter.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
