package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/dbx"
	"github.com/dmitrijs2005/myshelf/internal/server/models"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/myshelf/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	users.Repository

	mu     sync.Mutex
	byName map[string]*models.User
	err    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.ID = "user-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeBooksRepo struct {
	books.Repository

	rows    map[string]models.Book
	err     error
	deleted []string
}

func newFakeBooksRepo() *fakeBooksRepo {
	return &fakeBooksRepo{rows: map[string]models.Book{}}
}

func (f *fakeBooksRepo) Upsert(ctx context.Context, b *models.Book) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rows[b.OwnerID+"/"+b.ID] = *b
	return b, nil
}

func (f *fakeBooksRepo) ListByOwner(ctx context.Context, owner string) ([]models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Book{}
	for _, b := range f.rows {
		if b.OwnerID == owner {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBooksRepo) Delete(ctx context.Context, owner, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, owner+"/"+id)
	delete(f.rows, owner+"/"+id)
	return nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	b *fakeBooksRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.u }
func (m *fakeRepoManager) Books(dbx.DBTX) books.Repository { return m.b }
