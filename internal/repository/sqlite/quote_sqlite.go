// Package sqlite provides a SQLite-backed quote repository.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"spruchapi/internal/model"
	"spruchapi/internal/repository"
)

// QuoteSQLite stores quotes in SQLite. Timestamps are kept as UTC unix milliseconds.
type QuoteSQLite struct {
	db *sql.DB
}

// NewQuoteSQLite creates a new QuoteSQLite repository on an already migrated handle.
func NewQuoteSQLite(db *sql.DB) *QuoteSQLite {
	return &QuoteSQLite{db: db}
}

var _ repository.QuoteRepository = (*QuoteSQLite)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(s scanner) (*model.Quote, error) {
	var (
		q                    model.Quote
		createdAt, updatedAt int64
	)
	if err := s.Scan(&q.ID, &q.Text, &q.Author, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	q.CreatedAt = fromMillis(createdAt)
	q.UpdatedAt = fromMillis(updatedAt)
	return &q, nil
}

// Ping checks the database handle.
func (r *QuoteSQLite) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every quote, newest first.
func (r *QuoteSQLite) List(ctx context.Context) ([]model.Quote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, autor, created_at, updated_at
		 FROM sprueche
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of stored quotes.
func (r *QuoteSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sprueche`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// At returns the quote at offset in id order.
func (r *QuoteSQLite) At(ctx context.Context, offset int) (*model.Quote, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, text, autor, created_at, updated_at
		 FROM sprueche
		 ORDER BY id ASC
		 LIMIT 1 OFFSET ?`,
		offset,
	)
	return scanQuote(row)
}

// FindByID fetches one quote.
func (r *QuoteSQLite) FindByID(ctx context.Context, id int64) (*model.Quote, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, text, autor, created_at, updated_at
		 FROM sprueche
		 WHERE id = ?`,
		id,
	)
	return scanQuote(row)
}

// Create inserts one quote; the id comes from the AUTOINCREMENT rowid so ids are never reused.
func (r *QuoteSQLite) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	createdAt := toMillis(q.CreatedAt)
	updatedAt := toMillis(q.UpdatedAt)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sprueche (text, autor, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		q.Text,
		q.Author,
		createdAt,
		updatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Quote{
		ID:        id,
		Text:      q.Text,
		Author:    q.Author,
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

// Delete removes a quote and reports whether it existed.
func (r *QuoteSQLite) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprueche WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
