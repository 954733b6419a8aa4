package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zipnivasa/realtime/internal/auth"
	"github.com/zipnivasa/realtime/internal/domain"
)

// IdentityContextKey is where the authenticated identity lives in the echo
// context.
const IdentityContextKey = "identity"

// Auth creates a middleware that protects routes requiring authentication.
// It accepts the token either as an Authorization bearer header or as a
// "token" query parameter; browsers can't set headers on websocket upgrades,
// so the gateway route relies on the query form.
func Auth(verifier *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			ident, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			c.Set(IdentityContextKey, ident)
			return next(c)
		}
	}
}

// IdentityFrom extracts the authenticated identity placed by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	ident, ok := c.Get(IdentityContextKey).(domain.Identity)
	return ident, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
