package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, ScopeAdmin, claims.Scope)
	assert.Empty(t, claims.BusinessID)
}

func TestWizardTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateWizardToken("b-1", "owner-1", "app-1", 2*time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ScopePhase2, claims.Scope)
	assert.Equal(t, "b-1", claims.BusinessID)
	assert.Equal(t, "owner-1", claims.UserID)
	assert.Equal(t, "app-1", claims.ApplicationID)
	assert.NotZero(t, claims.ValidatedAt)
}

func TestWizardTokenRequiresPositiveDuration(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GenerateWizardToken("b-1", "u-1", "a-1", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{SecretKey: strings.Repeat("z", 32), Duration: time.Hour})
	require.NoError(t, err)

	token, err := other.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
