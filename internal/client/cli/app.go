package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/blob"
	"github.com/dmitrijs2005/myshelf/internal/client/client"
	"github.com/dmitrijs2005/myshelf/internal/client/config"
	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/client/identity"
	"github.com/dmitrijs2005/myshelf/internal/client/scheduler"
	"github.com/dmitrijs2005/myshelf/internal/client/services"
	"github.com/dmitrijs2005/myshelf/internal/filex"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Mode string

const (
	ModeOffline       Mode = "offline"
	ModeOnline        Mode = "online"
	ModeForcedOffline Mode = "offline mode"
)

// sessionInfo is what the App needs from the signed-in session.
type sessionInfo interface {
	CurrentOwnerID(ctx context.Context) (string, bool)
	LocalOwnerID(ctx context.Context) (string, bool)
	IsGuest(ctx context.Context) bool
	ContinueOffline(ctx context.Context) error
	UserName(ctx context.Context) string
}

type offlineToggle interface {
	OfflineMode(ctx context.Context) bool
	SetOfflineMode(ctx context.Context, on bool) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	auth    services.AuthService
	session sessionInfo
	prefs   offlineToggle
	library *services.Orchestrator
	oracle  connectivity.Oracle
	watcher *connectivity.Watcher
	sched   *scheduler.Scheduler
	closers []io.Closer
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
	pending  *services.PendingDelete
}

// NewApp opens the local library and wires every client component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser := logging.NewFileLogger(c.LogFile, c.LogLevel)

	libraryDir, err := filex.EnsureDir(c.LibraryDir)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		_ = logCloser.Close()
		return nil, err
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		_ = logCloser.Close()
		return nil, err
	}

	session := identity.NewSession(repos.Metadata)
	prefs := identity.NewPreferences(repos.Metadata)

	watcher := connectivity.NewWatcher(api, c.OnlineCheckInterval, c.RequestTimeout, logger)
	sched := scheduler.New(watcher, scheduler.Options{
		BaseDelay:    c.RetryBaseDelay,
		MaxDelay:     c.RetryMaxDelay,
		PollInterval: c.OnlineCheckInterval,
	}, logger)

	blobs := blob.NewStore(api, nil)
	uploader := services.NewUploader(services.Stores{Cache: repos.Books, Metadata: api, Blobs: blobs}, logger)
	worker := services.NewSyncWorker(session, repos.Books, uploader, c.SyncBatchSize, logger)

	library := services.NewOrchestrator(services.Deps{
		Cache:      repos.Books,
		Remote:     api,
		Blobs:      blobs,
		Uploader:   uploader,
		Oracle:     watcher,
		Prefs:      prefs,
		Queue:      sched,
		SyncTask:   worker,
		LibraryDir: libraryDir,
		Logger:     logger,
	})

	return &App{
		config:  c,
		logger:  logger.With("module", "cli"),
		auth:    services.NewAuthService(api, session),
		session: session,
		prefs:   prefs,
		library: library,
		oracle:  watcher,
		watcher: watcher,
		sched:   sched,
		closers: []io.Closer{api, repos, logCloser},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores the previous session, starts the background machinery and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	printlnFn("Welcome to MyShelf CLI (type 'help' for commands)")

	a.resume(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.watcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.watchConnectivity(gctx)
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	cancel()
	err := g.Wait()
	a.shutdown()
	return err
}

func (a *App) resume(ctx context.Context) {
	name, ok, err := a.auth.Resume(ctx)
	if err != nil {
		a.logger.Error(ctx, "failed to restore session", "error", err)
	}
	switch {
	case ok:
		a.setUser(name)
		printlnFn("Logged in as", name)
	case a.session.IsGuest(ctx):
		printlnFn("Using the library without an account")
	}

	if err := a.library.LoadCached(ctx); err != nil {
		a.logger.Error(ctx, "failed to load library", "error", err)
	}
	if ok {
		a.library.ScheduleSync(ctx)
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.flushPending(ctx); err != nil {
		a.logger.Warn(ctx, "pending delete failed", "error", err)
	}
	if a.sched != nil {
		if err := a.sched.Shutdown(ctx); err != nil {
			a.logger.Warn(ctx, "scheduler shutdown", "error", err)
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.session.CurrentOwnerID(ctx)
	return ok
}

// hasLibrary reports whether books can be used: with an account or as guest.
func (a *App) hasLibrary(ctx context.Context) bool {
	_, ok := a.session.LocalOwnerID(ctx)
	return ok
}

// owner returns who owns the books added now, the guest included.
func (a *App) owner(ctx context.Context) (string, error) {
	id, ok := a.session.LocalOwnerID(ctx)
	if !ok {
		return "", services.ErrNoOwner
	}
	return id, nil
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}
