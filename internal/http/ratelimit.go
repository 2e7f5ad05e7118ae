package http

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/rate"
)

// WithRateLimit limita requests por IP de cliente. Si el backend del limiter
// falla, el request pasa: el límite es protección, no disponibilidad.
func WithRateLimit(l rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, letting request through",
					logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				if secs := int(res.RetryAfter.Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				WriteFail(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
