package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"obsdemo/internal/model"
	"obsdemo/internal/service"
)

type MockWorkService struct {
	mock.Mock
}

func (m *MockWorkService) Run(ctx context.Context, cpuMillis, memMB int) (*model.WorkRun, error) {
	args := m.Called(ctx, cpuMillis, memMB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkRun), args.Error(1)
}

func (m *MockWorkService) ListRuns(ctx context.Context, limit, offset int) (*service.WorkRunListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WorkRunListResult), args.Error(1)
}

type MockDownstreamService struct {
	mock.Mock
}

func (m *MockDownstreamService) Call(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockDBLoadService struct {
	mock.Mock
}

func (m *MockDBLoadService) Query(ctx context.Context, latencyMS int) (int, error) {
	args := m.Called(ctx, latencyMS)
	return args.Int(0), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Capture(ctx context.Context, kind string, seconds int) (*service.ProfileResult, error) {
	args := m.Called(ctx, kind, seconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileResult), args.Error(1)
}
