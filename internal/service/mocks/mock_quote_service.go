package mocks

import (
	"context"

	"spruchapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) ListAll(ctx context.Context) ([]model.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

func (m *MockQuoteService) PickRandom(ctx context.Context) (*model.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) Insert(ctx context.Context, text, author string) (*model.Quote, error) {
	args := m.Called(ctx, text, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteService) Get(ctx context.Context, id int64) (*model.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) Seed(ctx context.Context, quotes []model.Quote) (int, error) {
	args := m.Called(ctx, quotes)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
