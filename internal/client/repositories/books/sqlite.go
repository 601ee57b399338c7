package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `SELECT id, title, author, location, synced FROM books`

const upsertQuery = `
	INSERT INTO books (id, title, author, location, synced)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title    = excluded.title,
		author   = excluded.author,
		location = excluded.location,
		synced   = excluded.synced
`

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.query(ctx, selectColumns+` ORDER BY rowid`)
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Book, error) {
	return r.query(ctx, selectColumns+` WHERE synced = 0 ORDER BY rowid`)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.Book, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, common.ErrorNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to get book %s: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, b models.Book) error {
	if err := upsert(ctx, r.db, b); err != nil {
		return fmt.Errorf("failed to insert book %s: %w", b.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertAll(ctx context.Context, books []models.Book) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		for _, b := range books {
			if err := upsert(ctx, tx, b); err != nil {
				return fmt.Errorf("failed to upsert book %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetSyncedLocation(ctx context.Context, id, location string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE books SET location = ?, synced = 1 WHERE id = ?`, location, id)
	if err != nil {
		return fmt.Errorf("failed to mark book %s synced: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark book %s synced: %w", id, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) SyncedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM books WHERE synced = 1 ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query synced ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan synced id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate synced ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) ReplaceSynced(ctx context.Context, known []string, fetched []models.Book) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range known {
			if _, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ? AND synced = 1`, id); err != nil {
				return fmt.Errorf("failed to clear synced book %s: %w", id, err)
			}
		}
		for _, b := range fetched {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO books (id, title, author, location, synced)
				VALUES (?, ?, ?, ?, 1)
				ON CONFLICT(id) DO NOTHING
			`, b.ID, b.Title, b.Author, b.Location)
			if err != nil {
				return fmt.Errorf("failed to store fetched book %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// inTx runs fn in a transaction when the handle can start one, and on the
// handle itself when it already is a transaction.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if b, ok := r.db.(dbx.TxBeginner); ok {
		return dbx.WithTx(ctx, b, nil, fn)
	}
	return fn(ctx, r.db)
}

func upsert(ctx context.Context, db dbx.DBTX, b models.Book) error {
	_, err := db.ExecContext(ctx, upsertQuery, b.ID, b.Title, b.Author, b.Location, b.Synced)
	return err
}

func (r *SQLiteRepository) query(ctx context.Context, q string) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	result := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (models.Book, error) {
	var b models.Book
	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.Location, &b.Synced)
	return b, err
}
