package kv

import (
	"context"

	"github.com/dmitrijs2005/gophpress/internal/dbx"
)

// ownerSchemaVersion is the migration version that introduced the owner
// discriminator column on kv_records and audit_events
// (00002_owner_scope.sql).
const ownerSchemaVersion = 2

// Capability describes what the connected schema supports.
type Capability struct {
	// OwnerColumn reports whether records carry an owner discriminator
	// column, i.e. whether several logical stores can share one table.
	OwnerColumn bool
}

// DetectCapability inspects the migration bookkeeping table to decide which
// schema the backend is running. The probe fails soft: any error, including
// the bookkeeping table not existing at all, yields the legacy capability
// set with no owner column. It must not be retried per request; detect once
// at startup and keep the result for the lifetime of the store.
func DetectCapability(ctx context.Context, db dbx.DBTX) Capability {
	const q = `SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied = TRUE`
	var version int64
	if err := db.QueryRowContext(ctx, q).Scan(&version); err != nil {
		return Capability{}
	}
	return Capability{OwnerColumn: version >= ownerSchemaVersion}
}
