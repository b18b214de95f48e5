package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/core/ports"
)

// SingleSubmission rejects a second submission of form from the same client
// while the first is still being handled.
func SingleSubmission(guard ports.SubmissionGuard, form string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			client := ScopeFrom(c).Client
			ok, err := guard.Acquire(c.Request().Context(), client, form)
			if err != nil {
				log.Warn().Err(err).Str("form", form).Msg("in-flight guard unavailable")
				return next(c)
			}
			if !ok {
				metrics.RejectedSubmissionsTotal.WithLabelValues(form, "in_flight").Inc()
				return c.JSON(http.StatusConflict, map[string]string{
					"error": "a submission for this form is already in progress",
				})
			}

			defer func() {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
				defer cancel()
				if err := guard.Release(ctx, client, form); err != nil {
					log.Warn().Err(err).Str("form", form).Msg("failed to release in-flight lock")
				}
			}()
			return next(c)
		}
	}
}
