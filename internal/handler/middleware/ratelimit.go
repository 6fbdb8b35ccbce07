package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	"innercloset/gatekeeper/pkg/response"
)

// NewRateLimiter creates a Gin middleware for rate limiting backed by store.
// requests is the number of requests allowed per period.
// period is a duration string (e.g., "1m", "1h").
func NewRateLimiter(store limiter.Store, requests int64, period string) (gin.HandlerFunc, error) {
	duration, err := time.ParseDuration(period)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit period %q: %w", period, err)
	}
	if requests <= 0 {
		return nil, fmt.Errorf("rate limit requests must be positive, got %d", requests)
	}

	rate := limiter.Rate{
		Period: duration,
		Limit:  requests,
	}
	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.Error(c, http.StatusTooManyRequests, "rate_limited")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			response.InternalError(c, "server_error")
		}),
	), nil
}
