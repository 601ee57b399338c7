package identity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newMeta(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	return metadata.NewSQLiteRepository(db)
}

func signedToken(t *testing.T, uid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uid,
	})
	s, err := tok.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestSession_SignInOut(t *testing.T) {
	s := NewSession(newMeta(t))
	ctx := context.Background()

	_, ok := s.CurrentOwnerID(ctx)
	assert.False(t, ok)
	assert.Empty(t, s.UserName(ctx))

	token := signedToken(t, "user-42")
	require.NoError(t, s.SignIn(ctx, token, "alice"))

	owner, ok := s.CurrentOwnerID(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-42", owner)
	assert.Equal(t, "alice", s.UserName(ctx))

	got, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)

	require.NoError(t, s.SignOut(ctx))
	_, ok = s.CurrentOwnerID(ctx)
	assert.False(t, ok)
	got, err = s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSession_GuestUntilSignIn(t *testing.T) {
	s := NewSession(newMeta(t))
	ctx := context.Background()

	_, ok := s.LocalOwnerID(ctx)
	assert.False(t, ok)
	assert.False(t, s.IsGuest(ctx))

	require.NoError(t, s.ContinueOffline(ctx))
	assert.True(t, s.IsGuest(ctx))
	owner, ok := s.LocalOwnerID(ctx)
	require.True(t, ok)
	assert.Equal(t, models.GuestOwnerID, owner)
	_, ok = s.CurrentOwnerID(ctx)
	assert.False(t, ok, "guest has no server account")

	require.NoError(t, s.SignIn(ctx, signedToken(t, "user-42"), "alice"))
	assert.False(t, s.IsGuest(ctx))
	owner, ok = s.LocalOwnerID(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-42", owner)

	require.NoError(t, s.SignOut(ctx))
	assert.False(t, s.IsGuest(ctx), "guest mode ends with sign-in")
	_, ok = s.LocalOwnerID(ctx)
	assert.False(t, ok)
}

func TestSession_SignOutLeavesGuestMode(t *testing.T) {
	s := NewSession(newMeta(t))
	ctx := context.Background()
	require.NoError(t, s.ContinueOffline(ctx))

	require.NoError(t, s.SignOut(ctx))
	assert.False(t, s.IsGuest(ctx))
}

func TestSession_SignInRejectsGarbage(t *testing.T) {
	s := NewSession(newMeta(t))

	err := s.SignIn(context.Background(), "not-a-jwt", "alice")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	err = s.SignIn(context.Background(), signedToken(t, ""), "alice")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPreferences_OfflineMode(t *testing.T) {
	p := NewPreferences(newMeta(t))
	ctx := context.Background()

	assert.False(t, p.OfflineMode(ctx))

	require.NoError(t, p.SetOfflineMode(ctx, true))
	assert.True(t, p.OfflineMode(ctx))

	require.NoError(t, p.SetOfflineMode(ctx, false))
	assert.False(t, p.OfflineMode(ctx))
}
