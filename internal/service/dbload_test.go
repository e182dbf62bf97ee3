package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBLoadService_Query_Simulated(t *testing.T) {
	svc := NewDBLoadService(nil, testLimits())
	ctx := context.Background()

	start := time.Now()
	rows, err := svc.Query(ctx, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDBLoadService_Query_Validation(t *testing.T) {
	svc := NewDBLoadService(nil, testLimits())
	ctx := context.Background()

	_, err := svc.Query(ctx, -1)
	assert.ErrorIs(t, err, ErrLatencyNegative)

	_, err = svc.Query(ctx, 10001)
	assert.ErrorIs(t, err, ErrLatencyTooLarge)
}

func TestDBLoadService_Query_Cancelled(t *testing.T) {
	svc := NewDBLoadService(nil, testLimits())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Query(ctx, 5000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDBLoadService_Query_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM pg_sleep").
		WithArgs(0.05).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	svc := NewDBLoadService(db, testLimits())

	rows, err := svc.Query(context.Background(), 50)

	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
