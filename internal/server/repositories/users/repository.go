// Package users persists accounts in PostgreSQL.
package users

import (
	"context"

	"github.com/dmitrijs2005/myshelf/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken user name
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown names.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
