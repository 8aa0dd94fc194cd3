package postgres

import (
	"context"
	"database/sql"

	"spruchapi/internal/model"
	"spruchapi/internal/repository"
)

// QuotePostgres is a PostgreSQL implementation of repository.QuoteRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type QuotePostgres struct {
	db *sql.DB
}

// NewQuotePostgres creates a new QuotePostgres repository.
func NewQuotePostgres(db *sql.DB) *QuotePostgres {
	return &QuotePostgres{db: db}
}

var _ repository.QuoteRepository = (*QuotePostgres)(nil)

const quoteColumns = `id, text, autor, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(s scanner) (*model.Quote, error) {
	var q model.Quote
	if err := s.Scan(&q.ID, &q.Text, &q.Author, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	q.UpdatedAt = q.UpdatedAt.UTC()
	return &q, nil
}

// Ping verifies the connection pool can reach the database.
func (r *QuotePostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every quote, newest first.
func (r *QuotePostgres) List(ctx context.Context) ([]model.Quote, error) {
	const q = `
		SELECT ` + quoteColumns + `
		FROM sprueche
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of rows in sprueche.
func (r *QuotePostgres) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM sprueche`
	var total int
	if err := r.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// At returns the row at offset in id order.
func (r *QuotePostgres) At(ctx context.Context, offset int) (*model.Quote, error) {
	const q = `
		SELECT ` + quoteColumns + `
		FROM sprueche
		ORDER BY id ASC
		LIMIT 1 OFFSET $1
	`
	return scanQuote(r.db.QueryRowContext(ctx, q, offset))
}

// FindByID fetches a single quote by its ID.
func (r *QuotePostgres) FindByID(ctx context.Context, id int64) (*model.Quote, error) {
	const q = `
		SELECT ` + quoteColumns + `
		FROM sprueche
		WHERE id = $1
	`
	return scanQuote(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new quote row and returns the stored record with its generated id.
func (r *QuotePostgres) Create(ctx context.Context, quote *model.Quote) (*model.Quote, error) {
	const q = `
		INSERT INTO sprueche (text, autor, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + quoteColumns
	row := r.db.QueryRowContext(ctx, q,
		quote.Text,
		quote.Author,
		quote.CreatedAt,
		quote.UpdatedAt,
	)
	return scanQuote(row)
}

// Delete removes a quote by ID and reports whether a row was affected.
func (r *QuotePostgres) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM sprueche WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
