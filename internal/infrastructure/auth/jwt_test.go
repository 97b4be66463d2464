package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", time.Hour, "erp")
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, 0, "erp")
	assert.Error(t, err)

	svc, err := NewTokenService(testSecret, time.Hour, "erp")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour, "erp")
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.Generate(userID, "Asha", "purchase_manager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "purchase_manager", claims.Role)
	assert.Equal(t, "erp", claims.Issuer)
}

func TestTokenService_Validate(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour, "erp")
	require.NoError(t, err)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other, err := NewTokenService("another-secret-another-secret-xx", time.Hour, "erp")
		require.NoError(t, err)
		token, err := other.Generate(uuid.New(), "x", "y")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other, err := NewTokenService(testSecret, time.Hour, "someone-else")
		require.NoError(t, err)
		token, err := other.Generate(uuid.New(), "x", "y")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		short, err := NewTokenService(testSecret, time.Nanosecond, "erp")
		require.NoError(t, err)
		token, err := short.Generate(uuid.New(), "x", "y")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = svc.Validate(token)
		assert.Error(t, err)
	})
}
