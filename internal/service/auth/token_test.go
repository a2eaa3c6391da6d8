package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bmjaya/printworks/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager(testConfig())

	token, err := manager.Issue(Claims{
		UserID:      7,
		Username:    "budisantoso",
		Name:        "Budi Santoso",
		Role:        "karyawan",
		AccountType: AccountTypeEmployee,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "budisantoso", claims.Username)
	assert.Equal(t, AccountTypeEmployee, claims.AccountType)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager(testConfig())
	verifier := NewTokenManager(config.Config{
		Auth: config.Auth{Secret: "other-secret", TokenTTL: time.Hour},
	})

	token, err := issuer.Issue(Claims{UserID: 1, Username: "admin", AccountType: AccountTypeAdmin})
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.TokenTTL = -time.Minute
	manager := NewTokenManager(cfg)

	token, err := manager.Issue(Claims{UserID: 1, Username: "admin", AccountType: AccountTypeAdmin})
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	manager := NewTokenManager(testConfig())

	_, err := manager.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
