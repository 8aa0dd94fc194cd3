package repository

import (
	"context"

	"spruchapi/internal/model"
)

// QuoteRepository defines data access for quotes. Every method issues a single statement
// against the backing store; no business logic or validation here.
type QuoteRepository interface {
	Pinger

	// List returns all quotes ordered by created_at DESC, id DESC.
	List(ctx context.Context) ([]model.Quote, error)

	// Count returns the number of stored quotes.
	Count(ctx context.Context) (int, error)

	// At returns the quote at offset in ascending id order, or sql.ErrNoRows past the end.
	At(ctx context.Context, offset int) (*model.Quote, error)

	// FindByID returns a quote by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Quote, error)

	// Create inserts text, author and timestamps from q. The ID is assigned by the store
	// and the stored record is returned.
	Create(ctx context.Context, q *model.Quote) (*model.Quote, error)

	// Delete removes a quote by ID and reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
