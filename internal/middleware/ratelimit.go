package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/promptforge/promptforge/internal/cache"
)

// RateLimiter checks per-IP token buckets. *cache.Cache satisfies it.
type RateLimiter interface {
	CheckAuthRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
	CheckRefineRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Limiter RateLimiter
	Enabled bool

	// Login and register endpoints (per IP).
	AuthRPS   int
	AuthBurst int

	// Refine endpoints (per IP).
	RefineRPS   int
	RefineBurst int
}

// RateLimitAuth returns middleware that rate limits the login and
// register endpoints per client IP. Applied before credential checks
// so brute-force attempts burn the bucket, not the database.
func RateLimitAuth(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return rateLimitIP(cfg, "auth", func(ctx context.Context, ip string) (*cache.RateLimitResult, error) {
		return cfg.Limiter.CheckAuthRateLimit(ctx, ip, cfg.AuthRPS, cfg.AuthBurst)
	})
}

// RateLimitRefine returns middleware that rate limits the refine
// endpoints per client IP.
func RateLimitRefine(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return rateLimitIP(cfg, "refine", func(ctx context.Context, ip string) (*cache.RateLimitResult, error) {
		return cfg.Limiter.CheckRefineRateLimit(ctx, ip, cfg.RefineRPS, cfg.RefineBurst)
	})
}

func rateLimitIP(cfg RateLimitConfig, kind string, check func(context.Context, string) (*cache.RateLimitResult, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			result, err := check(r.Context(), ip)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("type", kind),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, result.Remaining, result.ResetAt)

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", kind),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				writeRateLimitError(w, result.RetryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, remaining int64, resetAt time.Time) {
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

// writeRateLimitError writes a 429 Too Many Requests response.
func writeRateLimitError(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	msg := fmt.Sprintf(`{"error":"Rate limit exceeded. Retry after %d seconds.","code":"RATE_LIMITED"}`,
		int(retryAfter.Seconds()))
	_, _ = w.Write([]byte(msg))
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers for proxied requests.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP (client IP)
		for i := range xff {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
