package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"lifehub/internal/app/server/api/http/response"
)

const message = "Too many requests, please try again later."

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter ограничивает число запросов с одного IP: max запросов за window,
// токены восстанавливаются равномерно.
type Limiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	limit      rate.Limit
	burst      int
	ttl        time.Duration
	retryAfter string
	log        *slog.Logger
}

func New(name string, max int, window time.Duration, log *slog.Logger) *Limiter {
	interval := window / time.Duration(max)

	return &Limiter{
		visitors:   make(map[string]*visitor),
		limit:      rate.Every(interval),
		burst:      max,
		ttl:        window,
		retryAfter: strconv.Itoa(int(math.Ceil(interval.Seconds()))),
		log:        log.With(slog.String("component", "rate_limiter"), slog.String("limiter", name)),
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// Handler is the chi form, used for the whole router.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r.RemoteAddr)
		if !l.Allow(key) {
			l.log.Warn("rate limit exceeded", slog.String("ip", key), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", l.retryAfter)
			response.WriteHTTP(w, response.NewError(r.Context(), http.StatusTooManyRequests, response.CodeRateLimited, message, nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Middleware is the huma form, used on single operations.
func (l *Limiter) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.RemoteAddr())
		if !l.Allow(key) {
			l.log.Warn("rate limit exceeded", slog.String("ip", key), slog.String("path", ctx.URL().Path))
			ctx.SetHeader("Retry-After", l.retryAfter)
			response.WriteHuma(ctx, response.NewError(ctx.Context(), http.StatusTooManyRequests, response.CodeRateLimited, message, nil))
			return
		}
		next(ctx)
	}
}

// Cleanup периодически удаляет IP, не появлявшиеся дольше окна. Работает до отмены ctx.
func (l *Limiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evict(now)
		}
	}
}

func (l *Limiter) evict(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
