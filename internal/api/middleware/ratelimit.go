package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/quotemate/gateway/internal/api/metrics"
)

// NewLimiter builds an in-process limiter from a formatted rate such as
// "20-M" (20 per minute).
func NewLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limits requests per client IP. When the limiter store fails the
// request is let through.
func RateLimit(lim *limiter.Limiter, form string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := form + ":" + c.RealIP()
			lc, err := lim.Get(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("form", form).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

			if lc.Reached {
				metrics.RejectedSubmissionsTotal.WithLabelValues(form, "rate_limited").Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "too many attempts, please wait a moment and try again",
				})
			}
			return next(c)
		}
	}
}
