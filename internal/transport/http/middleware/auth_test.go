package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/service/auth"
)

func newTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(config.Config{
		Auth: config.Auth{Secret: "test-secret", TokenTTL: time.Hour},
	})
}

func request(t *testing.T, tokens *auth.TokenManager, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, claims.Username)
	}, Bearer(tokens))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearer_MissingToken(t *testing.T) {
	rec := request(t, newTokenManager(), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestBearer_InvalidToken(t *testing.T) {
	rec := request(t, newTokenManager(), "Bearer bogus")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBearer_WrongSecret(t *testing.T) {
	other := auth.NewTokenManager(config.Config{
		Auth: config.Auth{Secret: "other-secret", TokenTTL: time.Hour},
	})
	token, err := other.Issue(auth.Claims{UserID: 1, Username: "admin", AccountType: auth.AccountTypeAdmin})
	assert.NoError(t, err)

	rec := request(t, newTokenManager(), "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBearer_ValidTokenExposesClaims(t *testing.T) {
	tokens := newTokenManager()
	token, err := tokens.Issue(auth.Claims{UserID: 1, Username: "admin", AccountType: auth.AccountTypeAdmin})
	assert.NoError(t, err)

	rec := request(t, tokens, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}
