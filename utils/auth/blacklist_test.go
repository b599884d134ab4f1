package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistRevokeAndCleanup(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := auth.NewBlacklistService(db)
	user := testutil.CreateUser(t, db, "a@example.com")

	m := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret"})
	pair, err := m.IssuePair(auth.Subject{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)
	claims, err := m.ValidateToken(pair.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, claims, "logout"))
	revoked, err = svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := svc.CleanupExpiredTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.CleanupExpiredTokens(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRevokeAllUserTokens(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "a@example.com")

	require.NoError(t, auth.NewBlacklistService(db).RevokeAllUserTokens(context.Background(), user.ID))

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, user.TokenVersion+1, stored.TokenVersion)
}
