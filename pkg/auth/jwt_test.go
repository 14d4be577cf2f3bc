package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
)

func testUser() *model.User {
	u := &model.User{
		Email: "ana@tailor.local",
		Role:  model.UserRoleStaff,
	}
	u.ID = uuid.New()
	return u
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.UserRoleStaff, claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()

	token, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	access, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	// A refresh token must not pass as an access token, or the long
	// refresh expiry would bypass the short access window.
	_, err = svc.ValidateToken(refresh)
	assert.ErrorContains(t, err, "token type")

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorContains(t, err, "token type")
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewJWTService("secret-a", 15*time.Minute, 24*time.Hour)
	verifier := NewJWTService("secret-b", 15*time.Minute, 24*time.Hour)

	token, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, 24*time.Hour)

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
