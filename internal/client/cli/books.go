package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/services"
)

// Add imports the PDF at path into the library.
func (a *App) Add(ctx context.Context, path string) error {
	owner, err := a.owner(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	b, err := a.library.AddBook(ctx, owner, path, f)
	if err != nil {
		return err
	}

	state := a.library.UploadState().Get()
	a.library.AcknowledgeUploadState()

	switch {
	case owner == models.GuestOwnerID:
		fmt.Fprintf(a.out, "Added %q to this device, log in to sync it.\n", b.Title)
	case state.Phase == models.UploadSucceeded:
		fmt.Fprintf(a.out, "Added %q (synced)\n", b.Title)
	case state.Phase == models.UploadFailed:
		fmt.Fprintf(a.out, "Added %q locally, upload failed: %s\nIt will be retried in the background.\n", b.Title, state.Message)
	default:
		fmt.Fprintf(a.out, "Added %q locally, it will sync when online.\n", b.Title)
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	all := a.library.Books().Get()
	if len(all) == 0 {
		fmt.Fprintln(a.out, "Library is empty")
		return nil
	}
	for i, b := range all {
		fmt.Fprintf(a.out, "%d. %s by %s [%s]\n", i+1, b.Title, b.Author, syncLabel(b))
	}
	return nil
}

// Open prints a local path the book can be read from.
func (a *App) Open(ctx context.Context, n string) error {
	owner, err := a.owner(ctx)
	if err != nil {
		return err
	}
	b, err := a.bookAt(n)
	if err != nil {
		return err
	}

	path, err := a.library.Open(ctx, owner, b)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

// Delete removes book n right away and commits the remote delete once the
// undo window has passed. Only the latest delete can be undone.
func (a *App) Delete(ctx context.Context, n string) error {
	owner, err := a.owner(ctx)
	if err != nil {
		return err
	}
	b, err := a.bookAt(n)
	if err != nil {
		return err
	}

	if err := a.flushPending(ctx); err != nil {
		a.logger.Warn(ctx, "previous delete failed", "error", err)
	}

	p, err := a.library.ScheduleDelete(ctx, owner, b, a.config.UndoWindow)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.pending = p
	a.mu.Unlock()

	go func() {
		if err := p.Wait(context.Background()); err != nil {
			a.logger.Warn(context.Background(), "delete failed, book restored", "book_id", b.ID, "error", err)
		}
	}()

	fmt.Fprintf(a.out, "Deleted %q. Type 'undo' within %s to restore it.\n", b.Title, a.config.UndoWindow)
	return nil
}

func (a *App) Undo(ctx context.Context) error {
	a.mu.Lock()
	p := a.pending
	a.pending = nil
	a.mu.Unlock()

	if p == nil {
		fmt.Fprintln(a.out, "Nothing to undo")
		return nil
	}

	b, err := p.Undo(ctx)
	switch {
	case errors.Is(err, services.ErrUndoExpired):
		fmt.Fprintf(a.out, "Too late, %q is already deleted\n", p.Book().Title)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Restored %q\n", b.Title)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	owner, err := a.owner(ctx)
	if err != nil {
		return err
	}
	if owner == models.GuestOwnerID {
		fmt.Fprintln(a.out, "Not logged in, showing the local library")
	}

	err = a.library.Refresh(ctx, owner)
	if a.currentMode(ctx) == ModeForcedOffline {
		fmt.Fprintln(a.out, "Offline mode is on, showing the local library")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Library has %d books\n", len(a.library.Books().Get()))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, "Log in to sync your books")
		return nil
	}
	a.library.ScheduleSync(ctx)
	fmt.Fprintln(a.out, "Sync scheduled")
	return nil
}

func (a *App) Offline(ctx context.Context, arg string) error {
	switch arg {
	case "":
		fmt.Fprintln(a.out, "Offline mode:", onOff(a.prefs.OfflineMode(ctx)))
		return nil
	case "on", "off":
	default:
		fmt.Fprintln(a.out, "Usage: offline on|off")
		return nil
	}

	on := arg == "on"
	if err := a.prefs.SetOfflineMode(ctx, on); err != nil {
		return err
	}
	a.setMode(ctx, a.currentMode(ctx))
	if !on && a.isLoggedIn(ctx) {
		a.library.ScheduleSync(ctx)
	}
	fmt.Fprintln(a.out, "Offline mode:", onOff(on))
	return nil
}

// flushPending commits an outstanding delete immediately.
func (a *App) flushPending(ctx context.Context) error {
	a.mu.Lock()
	p := a.pending
	a.pending = nil
	a.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.Flush(ctx)
}

func (a *App) bookAt(n string) (models.Book, error) {
	all := a.library.Books().Get()
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 || i > len(all) {
		return models.Book{}, fmt.Errorf("no book number %s, see 'list'", n)
	}
	return all[i-1], nil
}

func syncLabel(b models.Book) string {
	if b.Synced {
		return "synced"
	}
	return "local"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
