package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	// ClientCookie identifies the device. It outlives browser restarts.
	ClientCookie = "qm_client"
	// BrowserSessionCookie has no expiry, so the browser drops it on restart.
	BrowserSessionCookie = "qm_bsid"

	clientCookieMaxAge = 365 * 24 * time.Hour
	scopeKey           = "qm.scope"
)

// Scope assigns the device and browser-session ids used to address session
// storage, issuing cookies for whichever is missing.
func Scope(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := domain.Scope{
				Client:         cookieValue(c, ClientCookie),
				BrowserSession: cookieValue(c, BrowserSessionCookie),
			}
			if scope.Client == "" {
				scope.Client = uuid.NewString()
				c.SetCookie(newCookie(ClientCookie, scope.Client, int(clientCookieMaxAge.Seconds()), secure))
			}
			if scope.BrowserSession == "" {
				scope.BrowserSession = uuid.NewString()
				c.SetCookie(newCookie(BrowserSessionCookie, scope.BrowserSession, 0, secure))
			}
			c.Set(scopeKey, scope)
			return next(c)
		}
	}
}

// ScopeFrom returns the scope set by the Scope middleware.
func ScopeFrom(c echo.Context) domain.Scope {
	s, _ := c.Get(scopeKey).(domain.Scope)
	return s
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return ""
	}
	return ck.Value
}

func newCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
