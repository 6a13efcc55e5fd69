// Package kv implements the generic persistence layer: a prefix-queryable
// key/value store of JSON-shaped values, backed by PostgreSQL in production
// and by an in-memory map for tests and local development.
package kv

import "context"

// Store is the persistence abstraction every higher-level component builds
// on. Keys are opaque non-empty strings; values are JSON-shaped (see Value).
//
// Implementations report infrastructure trouble through the sentinel errors
// in internal/common: common.ErrBackendUnavailable when the backend cannot
// be reached and common.ErrBackendFailure when it rejected the operation.
// Absent keys are not errors: Get reports them via its found flag and
// Delete of a missing key succeeds.
type Store interface {
	// Put creates or fully replaces the record under key.
	Put(ctx context.Context, key string, value Value) error

	// Get returns the value stored under key. The second return reports
	// whether the key existed.
	Get(ctx context.Context, key string) (Value, bool, error)

	// GetOrPut atomically stores value under key if the key is absent and
	// returns the value that ended up winning, whether it was already
	// present or was just written. Concurrent callers racing on the same
	// absent key all observe the same winner.
	GetOrPut(ctx context.Context, key string, value Value) (Value, error)

	// Delete removes the record under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every key that starts with prefix, sorted in
	// descending lexicographic order. Characters in prefix that are LIKE
	// metacharacters in the backend match themselves literally. An empty
	// prefix lists every key.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
