// Package storage persists genome and identity-registry records across runs.
// Backends are interchangeable behind the Store interface; records travel as
// versioned JSON payloads so any backend can refuse data written by an
// incompatible codec.
package storage

import (
	"context"

	"setgenome/record"
)

// Store defines the persistence operations for evolutionary run state.
type Store interface {
	Init(ctx context.Context) error
	SaveGenome(ctx context.Context, genome record.Genome) error
	GetGenome(ctx context.Context, id string) (record.Genome, bool, error)
	ListGenomes(ctx context.Context) ([]string, error)
	DeleteGenome(ctx context.Context, id string) error
	SaveRegistry(ctx context.Context, runID string, reg record.Registry) error
	GetRegistry(ctx context.Context, runID string) (record.Registry, bool, error)
}
