// Package server wires configuration, PostgreSQL, object storage and the
// gRPC endpoint into the MyShelf server process.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/dmitrijs2005/myshelf/internal/server/config"
	gs "github.com/dmitrijs2005/myshelf/internal/server/grpc"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/myshelf/internal/server/services"
	"golang.org/x/sync/errgroup"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds the gRPC server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewServerLogger(c.Environment, c.LogLevel, os.Stdout)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	bs := services.NewBookService(db, rm)
	ss := services.NewStorageService(c)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, bs, ss, c.SecretKey)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled or the server fails, then closes the
// database.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil && err == nil {
		err = cerr
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
