package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myshelf/internal/client/client"
	"github.com/dmitrijs2005/myshelf/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return userName, password, nil
}

// Register prompts for credentials and creates an account on the server.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, userName, password); err != nil {
		return explainRemote(err)
	}

	fmt.Fprintln(a.out, "Success! You can login now.")
	return nil
}

// Login authenticates online and keeps the session on this device, so later
// runs start logged in even without a connection.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, userName, password); err != nil {
		return explainRemote(err)
	}
	a.setUser(userName)
	fmt.Fprintln(a.out, "Logged in as", userName)

	owner, err := a.owner(ctx)
	if err != nil {
		return err
	}
	if err := a.library.Refresh(ctx, owner); err != nil {
		a.logger.Warn(ctx, "refresh after login failed", "error", err)
	}
	a.library.ScheduleSync(ctx)
	return nil
}

// ContinueOffline starts using the library without an account. Books added
// this way stay on the device and are uploaded after the first login.
func (a *App) ContinueOffline(ctx context.Context) error {
	if a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, "Already logged in")
		return nil
	}
	if err := a.session.ContinueOffline(ctx); err != nil {
		return err
	}
	if err := a.library.LoadCached(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Using the library without an account. Books stay on this device until you log in.")
	return nil
}

// Logout forgets the session and the synced part of the library. It is
// refused while books exist only on this device. A guest just leaves guest
// mode and keeps the local books for the next login.
func (a *App) Logout(ctx context.Context) error {
	if err := a.flushPending(ctx); err != nil {
		a.logger.Warn(ctx, "pending delete failed", "error", err)
	}

	if !a.isLoggedIn(ctx) {
		if !a.session.IsGuest(ctx) {
			fmt.Fprintln(a.out, "Not logged in")
			return nil
		}
		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Left offline use, local books are kept")
		return nil
	}

	if err := a.library.Forget(ctx); err != nil {
		if errors.Is(err, services.ErrUnsyncedBooks) {
			fmt.Fprintln(a.out, "Some books are not synced yet. Go online and run 'sync' before logging out.")
			return nil
		}
		return err
	}

	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setUser("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func explainRemote(err error) error {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("server is unreachable, try again when online: %w", err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("wrong user name or password: %w", err)
	}
	return err
}
