package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"obsdemo/internal/config"
	"obsdemo/internal/logging"
	"obsdemo/internal/model"
	"obsdemo/internal/repository"
)

var (
	ErrCPUMillisNegative = errors.New("cpu_ms must not be negative")
	ErrCPUMillisTooLarge = errors.New("cpu_ms exceeds the configured maximum")
	ErrMemMBNegative     = errors.New("mem_mb must not be negative")
	ErrMemMBTooLarge     = errors.New("mem_mb exceeds the configured maximum")
)

// WorkRunListResult is the service-level DTO for paginated work runs.
type WorkRunListResult struct {
	Items []model.WorkRun `json:"data"`
	Total int             `json:"total"`
}

// WorkService simulates CPU and memory load on demand and keeps a history
// of executed runs.
type WorkService interface {
	// Run busy-loops the CPU for cpuMillis milliseconds and allocates
	// (and touches) memMB MiB for the duration of the loop. The run is
	// recorded; persistence failure does not fail the run.
	Run(ctx context.Context, cpuMillis, memMB int) (*model.WorkRun, error)

	// ListRuns returns recorded runs using limit/offset and a total count.
	ListRuns(ctx context.Context, limit, offset int) (*WorkRunListResult, error)
}

type workService struct {
	repo   repository.WorkRunRepository
	log    *logging.Logger
	limits config.WorkConfig
	tracer trace.Tracer
}

// NewWorkService constructs a WorkService bounded by the given limits.
func NewWorkService(repo repository.WorkRunRepository, log *logging.Logger, limits config.WorkConfig) WorkService {
	return &workService{
		repo:   repo,
		log:    log,
		limits: limits,
		tracer: otel.Tracer("obsdemo/service"),
	}
}

func (s *workService) Run(ctx context.Context, cpuMillis, memMB int) (*model.WorkRun, error) {
	switch {
	case cpuMillis < 0:
		return nil, ErrCPUMillisNegative
	case cpuMillis > s.limits.MaxCPUMillis:
		return nil, ErrCPUMillisTooLarge
	case memMB < 0:
		return nil, ErrMemMBNegative
	case memMB > s.limits.MaxMemMB:
		return nil, ErrMemMBTooLarge
	}

	ctx, span := s.tracer.Start(ctx, "work_simulation", trace.WithAttributes(
		attribute.Int("work.cpu_ms", cpuMillis),
		attribute.Int("work.mem_mb", memMB),
	))
	defer span.End()

	start := time.Now()

	var buf []byte
	if memMB > 0 {
		buf = make([]byte, memMB<<20)
	}

	// Busy-loop until the deadline; iterations counted so the loop body
	// is not empty and the effort is reportable.
	deadline := start.Add(time.Duration(cpuMillis) * time.Millisecond)
	var iters uint64
	for time.Now().Before(deadline) {
		iters++
	}

	// Touch the buffer so the allocation is real and not optimized away.
	if buf != nil {
		step := len(buf) / 10
		if step < 1 {
			step = 1
		}
		for i := 0; i < len(buf); i += step {
			buf[i] = (buf[i] + 1) % 255
		}
	}

	elapsed := time.Since(start).Seconds()
	span.SetAttributes(attribute.Float64("work.elapsed_seconds", elapsed))

	run := &model.WorkRun{
		ID:             uuid.NewString(),
		CPUMillis:      cpuMillis,
		MemMB:          memMB,
		ElapsedSeconds: elapsed,
		Iterations:     iters,
		CreatedAt:      time.Now().UTC(),
	}

	// History is best effort: the simulation result is the product, a
	// failed insert must not turn a successful run into a 500.
	if s.repo != nil {
		if _, err := s.repo.Create(ctx, run); err != nil {
			s.log.Warn(ctx, "work_run_persist_failed", map[string]any{
				"run_id": run.ID,
				"error":  err.Error(),
			})
		}
	}

	s.log.Info(ctx, "work_done", map[string]any{
		"cpu_ms":  cpuMillis,
		"mem_mb":  memMB,
		"elapsed": elapsed,
		"iters":   iters,
	})

	return run, nil
}

func (s *workService) ListRuns(ctx context.Context, limit, offset int) (*WorkRunListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &WorkRunListResult{Items: res.Items, Total: res.Total}, nil
}
