package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request with a generated request id.
func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		a.logger.Infow("Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", clientIP(r))
	})
}

// rateLimitMiddleware provides rate limiting per client IP.
func (a *API) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		a.rateLimitersMu.Lock()
		entry, exists := a.rateLimiters[ip]
		if !exists {
			entry = &rateLimiterEntry{
				limiter:  rate.NewLimiter(rate.Limit(a.config.API.RateLimit), a.config.API.RateBurst),
				lastSeen: time.Now(),
			}
			a.rateLimiters[ip] = entry
		} else {
			entry.lastSeen = time.Now()
		}
		// Capture the limiter under the lock; the cleanup goroutine may
		// delete the entry concurrently.
		limiter := entry.limiter
		a.rateLimitersMu.Unlock()

		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
