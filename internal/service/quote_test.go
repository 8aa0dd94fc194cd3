package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"spruchapi/internal/model"
	"spruchapi/internal/repository/memory"
	repoMocks "spruchapi/internal/repository/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestQuoteService_Insert(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		text       string
		author     string
		setupMocks func(mRepo *repoMocks.MockQuoteRepository)
		wantErr    error
		wantField  string
	}{
		{
			name:   "happy path trims input",
			text:   "  Der Weg ist das Ziel.  ",
			author: "\tKonfuzius\n",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Create", mock.Anything, &model.Quote{
					Text:      "Der Weg ist das Ziel.",
					Author:    "Konfuzius",
					CreatedAt: fixedNow,
					UpdatedAt: fixedNow,
				}).Return(&model.Quote{ID: 1, Text: "Der Weg ist das Ziel.", Author: "Konfuzius", CreatedAt: fixedNow, UpdatedAt: fixedNow}, nil)
			},
		},
		{
			name:       "empty text",
			text:       "",
			author:     "Author",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			wantErr:    ErrValidation,
			wantField:  "text",
		},
		{
			name:       "blank author",
			text:       "Text",
			author:     "   ",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			wantErr:    ErrValidation,
			wantField:  "autor",
		},
		{
			name:       "text of 501 characters",
			text:       strings.Repeat("a", model.MaxTextLength+1),
			author:     "Author",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			wantErr:    ErrValidation,
			wantField:  "text",
		},
		{
			name:       "author of 101 characters",
			text:       "Text",
			author:     strings.Repeat("b", model.MaxAuthorLength+1),
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			wantErr:    ErrValidation,
			wantField:  "autor",
		},
		{
			name:   "multibyte text at the bound is accepted",
			text:   strings.Repeat("ü", model.MaxTextLength),
			author: "Author",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Quote{ID: 2}, nil)
			},
		},
		{
			name:   "repository error",
			text:   "Text",
			author: "Author",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockQuoteRepository)
			svc := NewQuoteService(mRepo, WithClock(fixedClock))

			tt.setupMocks(mRepo)

			q, err := svc.Insert(ctx, tt.text, tt.author)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, q)
				if tt.wantField != "" {
					var verr *ValidationError
					require.ErrorAs(t, err, &verr)
					assert.Equal(t, tt.wantField, verr.Field)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, q)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestQuoteService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuoteRepository)
		mRepo.On("List", mock.Anything).Return([]model.Quote{{ID: 2}, {ID: 1}}, nil)

		items, err := NewQuoteService(mRepo).ListAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuoteRepository)
		mRepo.On("List", mock.Anything).Return(nil, errors.New("db fail"))

		items, err := NewQuoteService(mRepo).ListAll(ctx)

		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "db fail")
		assert.Nil(t, items)
	})

	t.Run("applies the per-call timeout", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuoteRepository)
		mRepo.On("List", mock.MatchedBy(func(c context.Context) bool {
			deadline, ok := c.Deadline()
			return ok && time.Until(deadline) <= 50*time.Millisecond
		})).Return([]model.Quote{}, nil)

		_, err := NewQuoteService(mRepo, WithTimeout(50*time.Millisecond)).ListAll(ctx)

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})
}

func TestQuoteService_PickRandom(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		draw       int
		setupMocks func(mRepo *repoMocks.MockQuoteRepository)
		wantID     int64
		wantNil    bool
		wantErr    error
	}{
		{
			name: "empty store",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(0, nil)
			},
			wantNil: true,
		},
		{
			name: "reads the drawn offset",
			draw: 2,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(3, nil)
				mRepo.On("At", mock.Anything, 2).Return(&model.Quote{ID: 9}, nil)
			},
			wantID: 9,
		},
		{
			name: "redraws after a concurrent delete",
			draw: 2,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(3, nil).Once()
				mRepo.On("At", mock.Anything, 2).Return(nil, sql.ErrNoRows).Once()
				mRepo.On("Count", mock.Anything).Return(3, nil).Once()
				mRepo.On("At", mock.Anything, 2).Return(&model.Quote{ID: 5}, nil).Once()
			},
			wantID: 5,
		},
		{
			name: "gives up after repeated races",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(1, nil).Times(maxRandomAttempts)
				mRepo.On("At", mock.Anything, 0).Return(nil, sql.ErrNoRows).Times(maxRandomAttempts)
			},
			wantErr: ErrStorageUnavailable,
		},
		{
			name: "count error",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(0, errors.New("down"))
			},
			wantErr: ErrStorageUnavailable,
		},
		{
			name: "read error",
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Count", mock.Anything).Return(1, nil)
				mRepo.On("At", mock.Anything, 0).Return(nil, errors.New("down"))
			},
			wantErr: ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockQuoteRepository)
			draw := tt.draw
			svc := NewQuoteService(mRepo, WithRandom(func(n int) int { return draw }))

			tt.setupMocks(mRepo)

			q, err := svc.PickRandom(ctx)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, q)
			case tt.wantNil:
				assert.NoError(t, err)
				assert.Nil(t, q)
			default:
				assert.NoError(t, err)
				require.NotNil(t, q)
				assert.Equal(t, tt.wantID, q.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestQuoteService_DeleteByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockQuoteRepository)
		want       bool
		wantErr    error
	}{
		{
			name: "removed",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Delete", mock.Anything, int64(1)).Return(true, nil)
			},
			want: true,
		},
		{
			name: "already absent",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Delete", mock.Anything, int64(1)).Return(false, nil)
			},
			want: false,
		},
		{
			name:       "non-positive id never hits the store",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			want:       false,
		},
		{
			name: "repository error",
			id:   3,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("Delete", mock.Anything, int64(3)).Return(false, errors.New("db fail"))
			},
			wantErr: ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockQuoteRepository)
			svc := NewQuoteService(mRepo)

			tt.setupMocks(mRepo)

			removed, err := svc.DeleteByID(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, removed)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestQuoteService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockQuoteRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   4,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("FindByID", mock.Anything, int64(4)).Return(&model.Quote{ID: 4}, nil)
			},
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   5,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("FindByID", mock.Anything, int64(5)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "non-positive id",
			id:         -1,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {},
			wantErr:    ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   6,
			setupMocks: func(mRepo *repoMocks.MockQuoteRepository) {
				mRepo.On("FindByID", mock.Anything, int64(6)).Return(nil, errors.New("db fail"))
			},
			wantErr: ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockQuoteRepository)
			svc := NewQuoteService(mRepo)

			tt.setupMocks(mRepo)

			q, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, q)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, q.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestQuoteService_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty store", func(t *testing.T) {
		svc := NewQuoteService(memory.NewQuoteMemory())

		n, err := svc.Seed(ctx, model.DefaultQuotes)
		require.NoError(t, err)
		assert.Equal(t, len(model.DefaultQuotes), n)

		n, err = svc.Seed(ctx, model.DefaultQuotes)
		require.NoError(t, err)
		assert.Zero(t, n, "second run leaves a populated store alone")

		items, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, items, len(model.DefaultQuotes))
	})

	t.Run("count error", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuoteRepository)
		mRepo.On("Count", mock.Anything).Return(0, errors.New("down"))

		n, err := NewQuoteService(mRepo).Seed(ctx, model.DefaultQuotes)

		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Zero(t, n)
	})

	t.Run("invalid seed quote", func(t *testing.T) {
		svc := NewQuoteService(memory.NewQuoteMemory())

		n, err := svc.Seed(ctx, []model.Quote{{Text: "ok", Author: "a"}, {Text: "", Author: "b"}})

		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 1, n)
	})
}

func TestQuoteService_Ping(t *testing.T) {
	mRepo := new(repoMocks.MockQuoteRepository)
	mRepo.On("Ping", mock.Anything).Return(nil).Once()
	mRepo.On("Ping", mock.Anything).Return(errors.New("refused")).Once()
	svc := NewQuoteService(mRepo)

	assert.NoError(t, svc.Ping(context.Background()))
	assert.ErrorIs(t, svc.Ping(context.Background()), ErrStorageUnavailable)
}

func TestQuoteService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	svc := NewQuoteService(memory.NewQuoteMemory(), WithMetrics(m))
	ctx := context.Background()

	a, err := svc.Insert(ctx, "a", "x")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, "b", "x")
	require.NoError(t, err)
	_, err = svc.DeleteByID(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.DeleteByID(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.quotes))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("insert", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("delete", "ok")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestValidationBoundsMatchModel(t *testing.T) {
	_, err := normalize(strings.Repeat("x", model.MaxTextLength), strings.Repeat("y", model.MaxAuthorLength))
	assert.NoError(t, err)

	_, err = normalize(strings.Repeat("x", model.MaxTextLength+1), "y")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalize("x", strings.Repeat("y", model.MaxAuthorLength+1))
	assert.ErrorIs(t, err, ErrValidation)
}

// The remaining tests exercise the store contract end to end on the in-memory backend.

func TestStoreContract_InsertThenList(t *testing.T) {
	ctx := context.Background()
	svc := NewQuoteService(memory.NewQuoteMemory())

	pairs := [][2]string{
		{"Der Weg ist das Ziel.", "Konfuzius"},
		{"  Sei du selbst.  ", " Oscar Wilde "},
		{strings.Repeat("ß", model.MaxTextLength), strings.Repeat("é", model.MaxAuthorLength)},
	}

	for _, p := range pairs {
		before, err := svc.ListAll(ctx)
		require.NoError(t, err)

		q, err := svc.Insert(ctx, p[0], p[1])
		require.NoError(t, err)

		after, err := svc.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)

		matches := 0
		for _, item := range after {
			if item.ID == q.ID {
				matches++
				assert.Equal(t, strings.TrimSpace(p[0]), item.Text)
				assert.Equal(t, strings.TrimSpace(p[1]), item.Author)
			}
		}
		assert.Equal(t, 1, matches)
	}
}

func TestStoreContract_InsertDeleteDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewQuoteService(memory.NewQuoteMemory())

	q, err := svc.Insert(ctx, "Text", "Author")
	require.NoError(t, err)

	removed, err := svc.DeleteByID(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, q.ID, item.ID)
	}

	removed, err = svc.DeleteByID(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStoreContract_PickRandomMembership(t *testing.T) {
	ctx := context.Background()
	svc := NewQuoteService(memory.NewQuoteMemory())

	q, err := svc.PickRandom(ctx)
	require.NoError(t, err)
	assert.Nil(t, q)

	ids := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		q, err := svc.Insert(ctx, "Text", "Author")
		require.NoError(t, err)
		ids[q.ID] = true
	}

	seen := make(map[int64]int)
	for i := 0; i < 500; i++ {
		q, err := svc.PickRandom(ctx)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.True(t, ids[q.ID])
		seen[q.ID]++
	}
	// Each of the five quotes should show up; missing one in 500 uniform draws is ~1e-48.
	assert.Len(t, seen, len(ids))
}

func TestStoreContract_PickRandomIsUniformOverOffsets(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewQuoteMemory()

	draws := make(map[int]int)
	svc := NewQuoteService(repo, WithRandom(func(n int) int {
		k := len(draws) % n
		draws[k]++
		return k
	}))

	for i := 0; i < 4; i++ {
		_, err := svc.Insert(ctx, "Text", "Author")
		require.NoError(t, err)
	}

	got := make(map[int64]bool)
	for i := 0; i < 4; i++ {
		q, err := svc.PickRandom(ctx)
		require.NoError(t, err)
		got[q.ID] = true
	}
	assert.Len(t, got, 4, "every offset in [0, n) maps to a distinct quote")
}
