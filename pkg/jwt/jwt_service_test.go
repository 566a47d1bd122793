package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateTokenUser("3f1c6a52-9b1e-4d5f-8a57-1d2e3f4a5b6c", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.GetClaimsByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c6a52-9b1e-4d5f-8a57-1d2e3f4a5b6c", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	a, err := svc.GenerateTokenUser("user", domain.RoleUser)
	require.NoError(t, err)
	b, err := svc.GenerateTokenUser("user", domain.RoleUser)
	require.NoError(t, err)

	ca, err := svc.GetClaimsByToken(a)
	require.NoError(t, err)
	cb, err := svc.GetClaimsByToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID, cb.TokenID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService("test-secret", -time.Minute)
		token, err := expired.GenerateTokenUser("user", domain.RoleUser)
		require.NoError(t, err)

		_, err = svc.GetClaimsByToken(token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other-secret", time.Hour)
		token, err := other.GenerateTokenUser("user", domain.RoleUser)
		require.NoError(t, err)

		_, err = svc.GetClaimsByToken(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.GetClaimsByToken("not-a-token")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{ID: "x"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.GetClaimsByToken(signed)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}
