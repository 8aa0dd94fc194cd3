package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"spruchapi/internal/model"
	"spruchapi/internal/repository"
)

// maxRandomAttempts bounds redraws when deletes shrink the table between Count and At.
const maxRandomAttempts = 3

// QuoteService defines the use cases for handling quotes.
type QuoteService interface {
	// ListAll returns every quote, newest first.
	ListAll(ctx context.Context) ([]model.Quote, error)

	// PickRandom returns one quote drawn uniformly from the current set, or nil when empty.
	PickRandom(ctx context.Context) (*model.Quote, error)

	// Insert trims and validates text and author, then stores a new quote.
	Insert(ctx context.Context, text, author string) (*model.Quote, error)

	// DeleteByID removes a quote and reports whether it existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// Get returns a single quote by its ID.
	Get(ctx context.Context, id int64) (*model.Quote, error)

	// Seed inserts quotes only when the store is empty and returns how many were added.
	Seed(ctx context.Context, quotes []model.Quote) (int, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Option customizes a quote service.
type Option func(*quoteService)

// WithTimeout sets the per-call deadline applied to every store operation.
func WithTimeout(d time.Duration) Option {
	return func(s *quoteService) { s.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *quoteService) { s.now = now }
}

// WithRandom replaces the uniform source used by PickRandom; intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *quoteService) { s.intn = intn }
}

// WithMetrics records store operations on m.
func WithMetrics(m *Metrics) Option {
	return func(s *quoteService) { s.metrics = m }
}

// quoteService is a concrete implementation of QuoteService.
type quoteService struct {
	repo    repository.QuoteRepository
	timeout time.Duration
	now     func() time.Time
	intn    func(n int) int
	metrics *Metrics
}

// NewQuoteService constructs a new QuoteService.
func NewQuoteService(repo repository.QuoteRepository, opts ...Option) QuoteService {
	s := &quoteService{
		repo:    repo,
		timeout: 5 * time.Second,
		now:     time.Now,
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *quoteService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *quoteService) ListAll(ctx context.Context) ([]model.Quote, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	items, err := s.repo.List(ctx)
	s.metrics.observe("list", err)
	if err != nil {
		return nil, storageError("list quotes", err)
	}
	s.metrics.setQuotes(len(items))
	return items, nil
}

// PickRandom counts the rows and reads the one at a uniformly drawn offset.
func (s *quoteService) PickRandom(ctx context.Context) (*model.Quote, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		n, err := s.repo.Count(ctx)
		if err != nil {
			s.metrics.observe("random", err)
			return nil, storageError("count quotes", err)
		}
		if n == 0 {
			s.metrics.observe("random", nil)
			return nil, nil
		}

		q, err := s.repo.At(ctx, s.intn(n))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		s.metrics.observe("random", err)
		if err != nil {
			return nil, storageError("pick quote", err)
		}
		return q, nil
	}

	err := fmt.Errorf("table kept shrinking after %d attempts", maxRandomAttempts)
	s.metrics.observe("random", err)
	return nil, storageError("pick quote", err)
}

func (s *quoteService) Insert(ctx context.Context, text, author string) (*model.Quote, error) {
	in, err := normalize(text, author)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now().UTC()
	stored, err := s.repo.Create(ctx, &model.Quote{
		Text:      in.Text,
		Author:    in.Author,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.metrics.observe("insert", err)
	if err != nil {
		return nil, storageError("insert quote", err)
	}
	s.metrics.addQuotes(1)
	return stored, nil
}

func (s *quoteService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	removed, err := s.repo.Delete(ctx, id)
	s.metrics.observe("delete", err)
	if err != nil {
		return false, storageError("delete quote", err)
	}
	if removed {
		s.metrics.addQuotes(-1)
	}
	return removed, nil
}

func (s *quoteService) Get(ctx context.Context, id int64) (*model.Quote, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	q, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		s.metrics.observe("get", nil)
		return nil, ErrNotFound
	}
	s.metrics.observe("get", err)
	if err != nil {
		return nil, storageError("get quote", err)
	}
	return q, nil
}

// Seed is not atomic: two processes starting against the same empty table may both seed it.
func (s *quoteService) Seed(ctx context.Context, quotes []model.Quote) (int, error) {
	countCtx, cancel := s.withTimeout(ctx)
	n, err := s.repo.Count(countCtx)
	cancel()
	if err != nil {
		return 0, storageError("count quotes", err)
	}
	if n > 0 {
		s.metrics.setQuotes(n)
		return 0, nil
	}

	added := 0
	for _, q := range quotes {
		if _, err := s.Insert(ctx, q.Text, q.Author); err != nil {
			return added, fmt.Errorf("seed quote %q: %w", q.Text, err)
		}
		added++
	}
	return added, nil
}

func (s *quoteService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}
