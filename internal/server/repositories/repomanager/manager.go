package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/myshelf/internal/dbx"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
}
