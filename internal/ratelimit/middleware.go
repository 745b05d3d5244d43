package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"nftmarket/internal/platform/redis"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/httputil"
	"nftmarket/pkg/requestcontext"
)

// Limiter applies a fixed-window request limit per caller, backed by Redis so
// every replica shares one budget. With no Redis configured it passes
// requests through; the marketplace must stay usable in dev wiring.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewLimiter(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{client: client, limit: limit, window: window, logger: logger}
}

// Middleware enforces the limit. The key is the authenticated caller when
// present, the remote address otherwise.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l.client == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		subject := requestcontext.Caller(ctx).String()
		if subject == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			subject = host
		}
		key := fmt.Sprintf("ratelimit:%s:%d", subject, time.Now().Unix()/int64(l.window.Seconds()))

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			// Fail open: a Redis outage must not take the marketplace down.
			l.logger.WarnContext(ctx, "rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		if count > int64(l.limit) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
