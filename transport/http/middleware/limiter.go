package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	"hostel/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// rateWindow is the fixed window state kept per client.
// ResetAt is stored so later requests in the window keep the original expiry.
type rateWindow struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"reset_at"`
}

// RateLimit counts requests per client in fixed windows. Cache failures let the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || limits.MaxRequests <= 0 || limits.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			ctx := r.Context()
			now := a.now()
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r))

			var window rateWindow

			err := a.cache.Get(ctx, cacheKey, &window)
			if err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Str("key", cacheKey).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)

				return
			}

			if err != nil || window.ResetAt <= now.Unix() {
				window = rateWindow{ResetAt: now.Unix() + int64(limits.WindowSeconds)}
			}

			window.Count++
			retryAfter := int(window.ResetAt - now.Unix())

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-window.Count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if window.Count > limits.MaxRequests {
				response.WithRequestLimitExceeded(w, retryAfter)

				return
			}

			if err := a.cache.Save(ctx, cacheKey, window, max(retryAfter, 1)); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to persist rate limit window")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}

	return time.Now()
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := strings.TrimSpace(r.Header.Get(constant.RequestHeaderUserAgent))
	if ua == constant.Empty {
		return unknownAgent
	}

	return ua
}

// getClientIP trusts RemoteAddr. The RealIP middleware has already applied proxy headers.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
