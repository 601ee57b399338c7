package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/server/models"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BookService manages the metadata records of an owner's books.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBookService(db *sql.DB, m repomanager.RepositoryManager) *BookService {
	return &BookService{db: db, repomanager: m}
}

// Put stores book for ownerID, replacing a previous record with the same id.
// The locator must point into the owner's blob namespace.
func (s *BookService) Put(ctx context.Context, ownerID string, book models.Book) (*models.Book, error) {
	if err := uuid.Validate(book.ID); err != nil {
		return nil, ErrInvalidArgument
	}
	if !ownsLocator(ownerID, book.Locator) {
		return nil, ErrForeignLocator
	}
	if strings.TrimSpace(book.Author) == "" {
		book.Author = common.DefaultAuthor
	}
	book.OwnerID = ownerID

	saved, err := s.repomanager.Books(s.db).Upsert(ctx, &book)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return saved, nil
}

func (s *BookService) List(ctx context.Context, ownerID string) ([]models.Book, error) {
	list, err := s.repomanager.Books(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Delete removes a book record. Unknown ids succeed.
func (s *BookService) Delete(ctx context.Context, ownerID, bookID string) error {
	if err := s.repomanager.Books(s.db).Delete(ctx, ownerID, bookID); err != nil {
		return common.ErrorInternal
	}
	return nil
}
