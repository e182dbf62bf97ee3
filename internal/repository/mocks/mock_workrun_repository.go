package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"obsdemo/internal/model"
	"obsdemo/internal/repository"
)

type MockWorkRunRepository struct {
	mock.Mock
}

func (m *MockWorkRunRepository) Create(ctx context.Context, run *model.WorkRun) (*model.WorkRun, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkRun), args.Error(1)
}

func (m *MockWorkRunRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.WorkRun], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.WorkRun]), args.Error(1)
}
