package middlewares

import (
	"net"
	"net/http"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter throttles one route per client IP. A client that runs out of
// tokens is refused until blockTime has passed. Clients idle for a full
// window and no longer blocked are forgotten.
type RateLimiter struct {
	clients   map[string]*rateLimitClient
	mu        sync.Mutex
	requests  int
	per       time.Duration
	blockTime time.Duration
	lastSweep time.Time
	log       *zap.Logger
	now       func() time.Time
}

type rateLimitClient struct {
	limiter      *rate.Limiter
	lastSeen     time.Time
	blockedUntil time.Time
}

func NewRateLimiter(requests int, per, blockTime time.Duration, logger *zap.Logger) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	return &RateLimiter{
		clients:   make(map[string]*rateLimitClient),
		requests:  requests,
		per:       per,
		blockTime: blockTime,
		log:       logger,
		now:       time.Now,
	}
}

func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		if !r.allow(ip) {
			utils.BuildErrorResponse(r.log, w, exceptions.ErrTooManyRequests(nil))
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictIdle(now)

	client, exists := r.clients[ip]
	if !exists {
		client = &rateLimitClient{
			limiter: rate.NewLimiter(rate.Every(r.per/time.Duration(r.requests)), r.requests),
		}
		r.clients[ip] = client
	}
	client.lastSeen = now

	if now.Before(client.blockedUntil) {
		return false
	}

	if !client.limiter.AllowN(now, 1) {
		client.blockedUntil = now.Add(r.blockTime)
		return false
	}
	return true
}

// evictIdle runs at most once per window. It must be called with mu held.
func (r *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(r.lastSweep) < r.per {
		return
	}
	r.lastSweep = now

	for ip, client := range r.clients {
		if now.Sub(client.lastSeen) >= r.per && !now.Before(client.blockedUntil) {
			delete(r.clients, ip)
		}
	}
}

func (r *RateLimiter) trackedClients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// NewSubmitRateLimiter builds the per-IP limiter for the submit route from
// the submission settings.
func (m *Middlewares) NewSubmitRateLimiter() *RateLimiter {
	submission := m.InternalConfig.Submission
	return NewRateLimiter(
		submission.RateLimitPerMinute,
		time.Minute,
		time.Duration(submission.RateLimitBlockTimeMinutes)*time.Minute,
		m.Log,
	)
}
