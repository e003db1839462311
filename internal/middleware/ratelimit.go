package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// maxTrackedClients caps the limiter's memory. Once reached, requests from
// unknown addresses are rejected until cleanup frees slots.
const maxTrackedClients = 100000

// client is one address's token bucket state.
type client struct {
	tokens   float64
	refilled time.Time
	lastSeen time.Time
}

// RateLimiter applies a per-address token bucket to incoming requests. The
// broker and database are shared across every tenant, so a single noisy
// client must not be able to starve the rest.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    float64
	burst   int
	clock   func() time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per second with
// the given burst headroom.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate,
		burst:   burst,
		clock:   time.Now,
	}
}

// Handler enforces the limit and reports it via X-RateLimit headers.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		left, wait, ok := rl.take(clientAddr(r))

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.clock().Add(time.Second).Unix(), 10))

		if !ok {
			w.Header().Set("Retry-After", strconv.FormatFloat(math.Ceil(wait), 'f', 0, 64))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take consumes one token for addr. It reports the tokens left, and on
// rejection how many seconds until the next token accrues.
func (rl *RateLimiter) take(addr string) (left int, wait float64, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	c, known := rl.clients[addr]
	if !known {
		if len(rl.clients) >= maxTrackedClients {
			return 0, 1.0 / rl.rate, false
		}
		c = &client{tokens: float64(rl.burst) - 1, refilled: now, lastSeen: now}
		rl.clients[addr] = c
		return int(c.tokens), 0, true
	}

	c.tokens = math.Min(float64(rl.burst), c.tokens+now.Sub(c.refilled).Seconds()*rl.rate)
	c.refilled = now
	c.lastSeen = now

	if c.tokens < 1 {
		return 0, (1 - c.tokens) / rl.rate, false
	}
	c.tokens--
	return int(c.tokens), 0, true
}

// StartCleanup evicts buckets idle longer than maxIdle on every interval
// tick. The returned function stops the cleanup goroutine.
func (rl *RateLimiter) StartCleanup(interval, maxIdle time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.evictIdle(maxIdle)
			}
		}
	}()
	return cancel
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.clock().Add(-maxIdle)
	for addr, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, addr)
		}
	}
}

// Len reports how many addresses the limiter currently tracks.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientAddr derives the bucket key from RemoteAddr only. Forwarding
// headers are spoofable and must not select the bucket.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
