package middleware

import (
	"errors"
	"net/http"
	"scheduler/shared"
	"scheduler/shared/cache"
	"scheduler/shared/constant"
	"scheduler/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	bucketAPI     = "api"
	bucketBooking = "booking"

	routePublicBooking = "/v1/public/links/{id}/bookings"
)

type budget struct {
	bucket  string
	max     int
	seconds int
}

// budgetFor picks the counter a request spends from. Public booking creation has its own,
// smaller budget so one client cannot flood an advisor's calendar with pending requests.
func (a *appMiddleware) budgetFor(r *http.Request) budget {
	limits := a.config.App.RateLimiter

	if r.Method == http.MethodPost && routePattern(r) == routePublicBooking && limits.BookingMaxRequests > 0 {
		return budget{bucket: bucketBooking, max: limits.BookingMaxRequests, seconds: limits.WindowSeconds}
	}

	return budget{bucket: bucketAPI, max: limits.MaxRequests, seconds: limits.WindowSeconds}
}

// caller identifies who is spending the budget: the token principal when there is one,
// otherwise the client address and user agent.
func (a *appMiddleware) caller(r *http.Request) string {
	if id := shared.UserID(r.Context()); id != "" {
		return "user:" + id
	}

	return "anon:" + a.getClientIP(r) + ":" + a.getUA(r)
}

// RateLimit counts requests per caller in redis. It runs after Auth so the principal is known;
// internal calls carrying the API key are not counted. Redis failures let the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable || internalCall(r.Context()) {
				next.ServeHTTP(w, r)

				return
			}

			spend := a.budgetFor(r)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, spend.bucket, a.caller(r))

			var count int

			err := a.cache.Get(r.Context(), cacheKey, &count)

			switch {
			case errors.Is(err, cache.Nil):
				count = 1
			case err != nil:
				log.Warn().Err(err).Str("bucket", spend.bucket).Msg("rate limiter unavailable, request allowed")
				next.ServeHTTP(w, r)

				return
			default:
				count++
			}

			if count > spend.max {
				w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(spend.max))
				w.Header().Set(constant.RequestHeaderRateLimitRemaining, "0")
				w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(spend.seconds))
				response.WithRequestLimitExceeded(w, spend.seconds)

				return
			}

			if err := a.cache.Save(r.Context(), cacheKey, count, spend.seconds); err != nil {
				log.Warn().Err(err).Str("bucket", spend.bucket).Msg("rate limiter unavailable, request allowed")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(spend.max))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, spend.max-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(spend.seconds))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket address.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return r.RemoteAddr
}
