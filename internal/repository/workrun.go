// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory).
package repository

import (
	"context"

	"obsdemo/internal/model"
)

// WorkRunRepository defines persistence for work-run history.
// No business logic here, strictly storage operations.
type WorkRunRepository interface {
	// Create inserts a new work-run record. The caller provides required
	// fields (ID, CreatedAt). Returns the stored record.
	Create(ctx context.Context, run *model.WorkRun) (*model.WorkRun, error)

	// List returns a paginated list of work runs, newest first, and the
	// total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.WorkRun], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
