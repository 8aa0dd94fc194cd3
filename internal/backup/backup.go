// Package backup writes JSON snapshots of every stored quote to object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"spruchapi/internal/model"
	"spruchapi/internal/storage"
)

// KeyPrefix is prepended to every snapshot object key.
const KeyPrefix = "backups/"

// Snapshot describes one uploaded backup.
type Snapshot struct {
	Key     string    `json:"key"`
	Count   int       `json:"count"`
	URL     string    `json:"url,omitempty"`
	TakenAt time.Time `json:"taken_at"`
}

// document is the object body.
type document struct {
	TakenAt  time.Time     `json:"taken_at"`
	Count    int           `json:"count"`
	Sprueche []model.Quote `json:"sprueche"`
}

// QuoteLister is satisfied by service.QuoteService.
type QuoteLister interface {
	ListAll(ctx context.Context) ([]model.Quote, error)
}

// Service takes quote snapshots.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Option customizes a backup service.
type Option func(*backupService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *backupService) { s.now = now }
}

// WithPresignExpiry sets how long the returned download URL stays valid. Zero disables presigning.
func WithPresignExpiry(d time.Duration) Option {
	return func(s *backupService) { s.presignExpiry = d }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *backupService) { s.logger = l }
}

type backupService struct {
	quotes        QuoteLister
	store         storage.Storage
	now           func() time.Time
	presignExpiry time.Duration
	logger        *slog.Logger
}

// New returns a backup service reading from quotes and writing to store.
func New(quotes QuoteLister, store storage.Storage, opts ...Option) Service {
	s := &backupService{
		quotes:        quotes,
		store:         store,
		now:           time.Now,
		presignExpiry: 15 * time.Minute,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObjectKey names the snapshot taken at t, e.g. backups/sprueche-20240301T093000Z.json.
func ObjectKey(t time.Time) string {
	return KeyPrefix + "sprueche-" + t.UTC().Format("20060102T150405Z") + ".json"
}

// Snapshot lists every quote and uploads them as one JSON object.
// A presign failure is logged and leaves URL empty; the object is already stored by then.
func (s *backupService) Snapshot(ctx context.Context) (*Snapshot, error) {
	items, err := s.quotes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	if items == nil {
		items = []model.Quote{}
	}

	taken := s.now().UTC()
	body, err := json.Marshal(document{TakenAt: taken, Count: len(items), Sprueche: items})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := ObjectKey(taken)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"quote-count": strconv.Itoa(len(items))},
	}); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}

	snap := &Snapshot{Key: key, Count: len(items), TakenAt: taken}
	if s.presignExpiry > 0 {
		u, err := s.store.PresignGet(ctx, key, s.presignExpiry)
		if err != nil {
			s.logger.WarnContext(ctx, "backup_presign_failed", slog.String("key", key), slog.String("error", err.Error()))
		} else {
			snap.URL = u
		}
	}
	return snap, nil
}
