package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getRateLimitForEndpoint picks the limit bucket for a request.
func (mw *Middleware) getRateLimitForEndpoint(path, method string) (int, time.Duration) {
	rl := mw.cfg.RateLimit

	switch {
	case path == "/login" || strings.HasPrefix(path, "/login/") || path == "/signup":
		return rl.AuthLimit, rl.AuthWindow
	case strings.HasPrefix(path, "/admin"):
		return rl.AdminLimit, rl.AdminWindow
	case method == http.MethodPost && (path == "/orders" || path == "/reviews"):
		// public writes land in the shop owner's inbox
		return rl.OrderLimit, rl.OrderWindow
	}

	return rl.GeneralLimit, rl.GeneralWindow
}

// getClientIP extracts the client IP. chi's RealIP has already applied
// X-Forwarded-For and X-Real-IP to RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// normalizeEndpoint groups dynamic routes so the counter keyspace stays
// bounded, e.g. /p/about -> /p/:slug.
func normalizeEndpoint(path string) string {
	path = strings.TrimSuffix(path, "/")

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 3 && parts[1] == "p":
		return "/p/:slug"
	case len(parts) >= 3 && parts[1] == "i18n":
		return "/i18n/:lang"
	case len(parts) >= 4 && parts[1] == "admin":
		return "/admin/" + parts[2] + "/:id"
	}
	return path
}

// RateLimitMiddleware implements fixed window rate limiting. Cache errors
// let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			limit, window := mw.getRateLimitForEndpoint(r.URL.Path, r.Method)
			endpoint := r.Method + " " + normalizeEndpoint(r.URL.Path)

			count, err := mw.cacheService.IncrementRateLimit(r.Context(), clientIP, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			reset := fmt.Sprintf("%d", time.Now().Add(window).Unix())

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", reset)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))

				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			remaining := max(0, limit-count)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", reset)

			if count > int(float64(limit)*0.8) {
				mw.logger.Debug("Rate limit warning",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("remaining", remaining),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}
