// Package memory keeps quotes in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"spruchapi/internal/model"
	"spruchapi/internal/repository"
)

// QuoteMemory is a mutex-guarded quote repository. Items are kept in ascending id order.
type QuoteMemory struct {
	mu     sync.RWMutex
	items  []model.Quote
	lastID int64
}

// NewQuoteMemory returns an empty in-memory repository.
func NewQuoteMemory() *QuoteMemory {
	return &QuoteMemory{}
}

var _ repository.QuoteRepository = (*QuoteMemory)(nil)

func (r *QuoteMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *QuoteMemory) List(ctx context.Context) ([]model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := make([]model.Quote, len(r.items))
	copy(items, r.items)
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (r *QuoteMemory) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *QuoteMemory) At(ctx context.Context, offset int) (*model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset < 0 || offset >= len(r.items) {
		return nil, sql.ErrNoRows
	}
	q := r.items[offset]
	return &q, nil
}

func (r *QuoteMemory) FindByID(ctx context.Context, id int64) (*model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index(id); ok {
		q := r.items[i]
		return &q, nil
	}
	return nil, sql.ErrNoRows
}

func (r *QuoteMemory) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	stored := model.Quote{
		ID:        r.lastID,
		Text:      q.Text,
		Author:    q.Author,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	r.items = append(r.items, stored)
	return &stored, nil
}

func (r *QuoteMemory) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index(id)
	if !ok {
		return false, nil
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return true, nil
}

// index binary-searches items by id; callers hold the lock.
func (r *QuoteMemory) index(id int64) (int, bool) {
	i := sort.Search(len(r.items), func(i int) bool { return r.items[i].ID >= id })
	if i < len(r.items) && r.items[i].ID == id {
		return i, true
	}
	return 0, false
}
