// Package identity keeps who is signed in and what they prefer, both stored
// in the local metadata table so they survive restarts.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyAccessToken = "access_token"
	keyUserName    = "user_name"
	keyGuest       = "guest"
)

// claims mirrors the token the server issues. The client never verifies
// the signature; it only needs the subject to scope its requests.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

type Session struct {
	meta metadata.Repository
}

func NewSession(meta metadata.Repository) *Session {
	return &Session{meta: meta}
}

// SignIn stores the access token and the name it was issued for. It ends
// guest use of the library.
func (s *Session) SignIn(ctx context.Context, token, userName string) error {
	if _, err := ownerFromToken(token); err != nil {
		return err
	}
	if err := s.meta.Set(ctx, keyAccessToken, token); err != nil {
		return err
	}
	if err := s.meta.Set(ctx, keyUserName, userName); err != nil {
		return err
	}
	return s.meta.Delete(ctx, keyGuest)
}

func (s *Session) SignOut(ctx context.Context) error {
	for _, k := range []string{keyAccessToken, keyUserName, keyGuest} {
		if err := s.meta.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// ContinueOffline lets the library be used without an account. Books are
// then owned by models.GuestOwnerID until someone signs in.
func (s *Session) ContinueOffline(ctx context.Context) error {
	return s.meta.Set(ctx, keyGuest, "true")
}

// IsGuest reports whether the library is in use without an account.
func (s *Session) IsGuest(ctx context.Context) bool {
	if _, ok := s.CurrentOwnerID(ctx); ok {
		return false
	}
	v, _ := s.get(ctx, keyGuest)
	return v == "true"
}

// LocalOwnerID is the owner of books added on this device: the signed-in
// user or, in guest mode, models.GuestOwnerID. Only CurrentOwnerID may be
// used for server calls.
func (s *Session) LocalOwnerID(ctx context.Context) (string, bool) {
	if owner, ok := s.CurrentOwnerID(ctx); ok {
		return owner, true
	}
	if s.IsGuest(ctx) {
		return models.GuestOwnerID, true
	}
	return "", false
}

// AccessToken returns the stored token or "" when signed out.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

// UserName returns the stored user name or "" when signed out.
func (s *Session) UserName(ctx context.Context) string {
	v, _ := s.get(ctx, keyUserName)
	return v
}

// CurrentOwnerID returns the owner the stored token was issued for.
func (s *Session) CurrentOwnerID(ctx context.Context) (string, bool) {
	token, err := s.AccessToken(ctx)
	if err != nil || token == "" {
		return "", false
	}
	owner, err := ownerFromToken(token)
	if err != nil {
		return "", false
	}
	return owner, true
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.meta.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	return v, err
}

func ownerFromToken(token string) (string, error) {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if c.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return c.UserID, nil
}
