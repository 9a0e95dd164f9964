package store

import (
	"context"

	"scamguard-lab/internal/domain/models"
)

// The engine never owns storage. Each session's mutable state sits behind
// one of these interfaces so the scoring and extraction services stay
// stateless with respect to storage choice and testable with the
// in-memory implementations.
//
// Concurrent access for different session IDs is safe. Concurrent calls
// for the same session ID are read-modify-write and must be serialized
// by the caller; the stores do not provide compare-and-swap.

// RiskStateStore persists per-session cumulative scoring state
type RiskStateStore interface {
	// Get returns the state for sessionID; found is false when the
	// session has never been scored
	Get(ctx context.Context, sessionID string) (state *models.RiskState, found bool, err error)
	Put(ctx context.Context, state *models.RiskState) error
	Delete(ctx context.Context, sessionID string) error
}

// IntelStore persists per-session accumulated identifier sets
type IntelStore interface {
	Get(ctx context.Context, sessionID string) (state *models.IntelState, found bool, err error)
	Put(ctx context.Context, state *models.IntelState) error
	Delete(ctx context.Context, sessionID string) error
}

// PatternRegistry stores one scam-signature record per session for
// cross-session recurrence lookup
type PatternRegistry interface {
	// FindByFingerprint returns records sharing fingerprint, excluding
	// excludeSession, most recently updated first
	FindByFingerprint(ctx context.Context, fingerprint, excludeSession string) ([]models.PatternRecord, error)
	Upsert(ctx context.Context, rec models.PatternRecord) error
	All(ctx context.Context) ([]models.PatternRecord, error)
}

// IdentifierRegistry tracks unique identifier values across sessions
type IdentifierRegistry interface {
	// Record inserts the observation or merges it into the existing
	// entry: occurrences increment, sessions union, confidence keeps
	// its maximum, risk level and last-seen update
	Record(ctx context.Context, rec models.IdentifierRecord) error
	Get(ctx context.Context, value string) (rec *models.IdentifierRecord, found bool, err error)
	List(ctx context.Context, filter models.RegistryFilter) ([]models.IdentifierRecord, error)
	Stats(ctx context.Context) (models.RegistryStats, error)
}
