package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/services"
)

func (a *App) currentMode(ctx context.Context) Mode {
	if a.prefs != nil && a.prefs.OfflineMode(ctx) {
		return ModeForcedOffline
	}
	if a.oracle != nil && a.oracle.IsReachable() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	s := a.userName
	a.mu.Unlock()

	ctx := context.Background()
	mode := a.currentMode(ctx)
	if s == "" && a.session != nil && a.session.IsGuest(ctx) {
		s = "guest"
	}
	if s != "" {
		s += " "
	}
	return fmt.Sprintf(" (%s%s)", s, mode)
}

// watchConnectivity tracks reachability changes and kicks the background
// sync whenever the server comes back.
func (a *App) watchConnectivity(ctx context.Context) {
	n, ok := a.oracle.(connectivity.Notifier)
	if !ok {
		return
	}
	ch, stop := n.Subscribe()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case up, ok := <-ch:
			if !ok {
				return
			}
			a.setMode(ctx, a.currentMode(ctx))
			if up && a.isLoggedIn(ctx) {
				a.library.ScheduleSync(ctx)
			}
		}
	}
}

func (a *App) Status(ctx context.Context) error {
	a.mu.Lock()
	user := a.userName
	a.mu.Unlock()
	switch {
	case user != "":
	case a.session != nil && a.session.IsGuest(ctx):
		user = "(no account, books stay on this device)"
	default:
		user = "(not logged in)"
	}

	all := a.library.Books().Get()
	unsynced := 0
	for _, b := range all {
		if !b.Synced {
			unsynced++
		}
	}

	fmt.Fprintln(a.out, "User:     ", user)
	fmt.Fprintln(a.out, "Mode:     ", a.currentMode(ctx))
	fmt.Fprintf(a.out, "Books:     %d (%d not synced)\n", len(all), unsynced)

	upload := a.library.UploadState().Get()
	if upload.Phase != models.UploadIdle {
		msg := upload.Phase.String()
		if upload.Message != "" {
			msg += ": " + upload.Message
		}
		fmt.Fprintln(a.out, "Upload:   ", msg)
	}
	if a.sched != nil && a.sched.Pending(services.SyncTaskName) {
		fmt.Fprintln(a.out, "Sync:      scheduled")
	}
	return nil
}
