package services

import (
	"context"
	"fmt"
)

// AccountClient is the part of the server API used for accounts.
type AccountClient interface {
	Register(ctx context.Context, userName, password string) (string, error)
	Login(ctx context.Context, userName, password string) (userID, token string, err error)
	SetAccessToken(token string)
}

// SessionStore keeps the signed-in user on this device.
type SessionStore interface {
	SignIn(ctx context.Context, token, userName string) error
	SignOut(ctx context.Context) error
	AccessToken(ctx context.Context) (string, error)
	UserName(ctx context.Context) string
}

// AuthService defines the account operations of the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate and remember the session locally.
//   - Logout: forget the local session.
//   - Resume: hand a remembered token back to the API client.
type AuthService interface {
	Register(ctx context.Context, userName, password string) error
	Login(ctx context.Context, userName, password string) error
	Logout(ctx context.Context) error
	Resume(ctx context.Context) (userName string, ok bool, err error)
}

type authService struct {
	client  AccountClient
	session SessionStore
}

func NewAuthService(c AccountClient, s SessionStore) AuthService {
	return &authService{client: c, session: s}
}

func (a *authService) Register(ctx context.Context, userName, password string) error {
	if _, err := a.client.Register(ctx, userName, password); err != nil {
		return err
	}
	return nil
}

// Login authenticates against the server and stores the issued token, so
// the session survives restarts and works offline.
func (a *authService) Login(ctx context.Context, userName, password string) error {
	_, token, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.session.SignIn(ctx, token, userName); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	return a.session.SignOut(ctx)
}

func (a *authService) Resume(ctx context.Context) (string, bool, error) {
	token, err := a.session.AccessToken(ctx)
	if err != nil {
		return "", false, err
	}
	if token == "" {
		return "", false, nil
	}
	a.client.SetAccessToken(token)
	return a.session.UserName(ctx), true, nil
}
