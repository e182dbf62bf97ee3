package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"obsdemo/internal/config"
)

var (
	ErrLatencyNegative = errors.New("latency_ms must not be negative")
	ErrLatencyTooLarge = errors.New("latency_ms exceeds the configured maximum")
)

// DBLoadService simulates database latency. With Postgres configured the
// wait happens server-side via pg_sleep so the query shows up in database
// spans and statistics; without a database it degrades to an in-process
// sleep.
type DBLoadService interface {
	// Query waits latencyMS milliseconds and returns the simulated row count.
	Query(ctx context.Context, latencyMS int) (int, error)
}

type dbLoadService struct {
	db     *sql.DB // nil when no database is configured
	limits config.WorkConfig
	tracer trace.Tracer
}

// NewDBLoadService constructs a DBLoadService. db may be nil.
func NewDBLoadService(db *sql.DB, limits config.WorkConfig) DBLoadService {
	return &dbLoadService{
		db:     db,
		limits: limits,
		tracer: otel.Tracer("obsdemo/service"),
	}
}

func (s *dbLoadService) Query(ctx context.Context, latencyMS int) (int, error) {
	switch {
	case latencyMS < 0:
		return 0, ErrLatencyNegative
	case latencyMS > s.limits.MaxDBLatencyMS:
		return 0, ErrLatencyTooLarge
	}

	ctx, span := s.tracer.Start(ctx, "db_query", trace.WithAttributes(
		attribute.Int("db.latency_ms", latencyMS),
		attribute.Bool("db.simulated", s.db == nil),
	))
	defer span.End()

	if s.db == nil {
		select {
		case <-time.After(time.Duration(latencyMS) * time.Millisecond):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
		return 1, nil
	}

	var one int
	const q = `SELECT 1 FROM pg_sleep($1)`
	if err := s.db.QueryRowContext(ctx, q, float64(latencyMS)/1000.0).Scan(&one); err != nil {
		return 0, err
	}
	return one, nil
}
