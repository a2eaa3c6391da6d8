package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bmjaya/printworks/internal/presentation/http/response"
	"github.com/bmjaya/printworks/internal/service/auth"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

// ClaimsKey is the echo context key the verified token claims live under.
const ClaimsKey = "auth.claims"

// Bearer returns middleware that requires a valid bearer token. A missing
// token yields 401, a bad one 403. Verified claims are stored on the
// context for handlers that need the caller's identity.
func Bearer(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if token == "" {
				return response.New(c).WithError(errorbank.Unauthorized("authentication token required")).Build()
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return response.New(c).WithError(errorbank.Forbidden("invalid or expired token")).Build()
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom extracts the verified claims set by Bearer, if any.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok
}
