package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obsdemo/internal/config"
	"obsdemo/internal/logging"
	"obsdemo/internal/model"
	"obsdemo/internal/repository"
	repoMocks "obsdemo/internal/repository/mocks"
)

func testLimits() config.WorkConfig {
	return config.WorkConfig{
		MaxCPUMillis:   10000,
		MaxMemMB:       512,
		MaxDBLatencyMS: 10000,
	}
}

func TestWorkService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockWorkRunRepository)
		mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.WorkRun")).
			Return(&model.WorkRun{ID: "stored"}, nil)

		svc := NewWorkService(mRepo, logging.NewWithWriter(&bytes.Buffer{}, time.UTC), testLimits())

		start := time.Now()
		run, err := svc.Run(ctx, 20, 1)
		elapsed := time.Since(start)

		require.NoError(t, err)
		require.NotNil(t, run)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, 20, run.CPUMillis)
		assert.Equal(t, 1, run.MemMB)
		assert.GreaterOrEqual(t, run.ElapsedSeconds, 0.02)
		assert.Greater(t, run.Iterations, uint64(0))
		assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
		mRepo.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewWorkService(nil, logging.NewWithWriter(&bytes.Buffer{}, time.UTC), testLimits())

		tests := []struct {
			name    string
			cpuMS   int
			memMB   int
			wantErr error
		}{
			{"negative cpu_ms", -1, 0, ErrCPUMillisNegative},
			{"cpu_ms above max", 10001, 0, ErrCPUMillisTooLarge},
			{"negative mem_mb", 0, -1, ErrMemMBNegative},
			{"mem_mb above max", 0, 513, ErrMemMBTooLarge},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				run, err := svc.Run(ctx, tt.cpuMS, tt.memMB)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, run)
			})
		}
	})

	t.Run("persist failure is not fatal", func(t *testing.T) {
		mRepo := new(repoMocks.MockWorkRunRepository)
		mRepo.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down"))

		var logs bytes.Buffer
		svc := NewWorkService(mRepo, logging.NewWithWriter(&logs, time.UTC), testLimits())

		run, err := svc.Run(ctx, 1, 0)

		require.NoError(t, err)
		require.NotNil(t, run)
		assert.Contains(t, logs.String(), "work_run_persist_failed")
	})

	t.Run("nil repository", func(t *testing.T) {
		svc := NewWorkService(nil, logging.NewWithWriter(&bytes.Buffer{}, time.UTC), testLimits())

		run, err := svc.Run(ctx, 1, 0)

		require.NoError(t, err)
		assert.NotNil(t, run)
	})
}

func TestWorkService_ListRuns(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		mRepo := new(repoMocks.MockWorkRunRepository)
		mRepo.On("List", mock.Anything, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.WorkRun]{
				Items: []model.WorkRun{{ID: "a"}},
				Total: 1,
			}, nil)

		svc := NewWorkService(mRepo, logging.NewWithWriter(&bytes.Buffer{}, time.UTC), testLimits())

		res, err := svc.ListRuns(ctx, 0, -5)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockWorkRunRepository)
		mRepo.On("List", mock.Anything, mock.Anything).
			Return(nil, errors.New("query failed"))

		svc := NewWorkService(mRepo, logging.NewWithWriter(&bytes.Buffer{}, time.UTC), testLimits())

		res, err := svc.ListRuns(ctx, 10, 0)

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}
