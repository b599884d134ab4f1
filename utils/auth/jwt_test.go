package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{Secret: "test-secret", Issuer: "lms-test"})
}

func TestIssueAndValidatePair(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair(Subject{UserID: 7, Email: "a@example.com", Role: "student", TokenVersion: 2})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, 2, claims.TokenVersion)
	assert.Equal(t, "lms-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = m.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	refresh, err := m.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair(Subject{UserID: 1})
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Secret: "another-secret"})
	_, err = other.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not.a.token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair(Subject{UserID: 1})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = m.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	assert.NoError(t, err)
}
