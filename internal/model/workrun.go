package model

import "time"

// WorkRun records one execution of the /work load simulation.
// Pure domain model with no database-specific dependencies or tags,
// usable across layers (HTTP, service, repository) without coupling
// to persistence.
type WorkRun struct {
	ID             string    `json:"id"`
	CPUMillis      int       `json:"cpu_ms"`
	MemMB          int       `json:"mem_mb"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Iterations     uint64    `json:"iters"`
	CreatedAt      time.Time `json:"created_at"`
}
