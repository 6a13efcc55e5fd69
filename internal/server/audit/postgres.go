package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/dbx"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
)

// PostgresSink appends audit events to the audit_events table, scoped by
// owner when the schema capability allows it.
type PostgresSink struct {
	db     dbx.DBTX
	cap    kv.Capability
	owner  string
	logger logging.Logger
}

// NewPostgresSink binds a sink to the same connection and capability the kv
// store runs on.
func NewPostgresSink(db dbx.DBTX, c kv.Capability, owner string, logger logging.Logger) *PostgresSink {
	if owner == "" {
		owner = kv.DefaultOwner
	}
	return &PostgresSink{db: db, cap: c, owner: owner, logger: logger}
}

func (s *PostgresSink) Record(ctx context.Context, event string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		s.logger.Error(ctx, "audit write dropped", "event", event, "error", err)
		return
	}

	query := `INSERT INTO audit_events (event, details) VALUES ($1, $2);`
	args := []any{event, string(data)}
	if s.cap.OwnerColumn {
		query = `INSERT INTO audit_events (event, details, owner) VALUES ($1, $2, $3);`
		args = []any{event, string(data), s.owner}
	}

	// Audit writes are bounded so a dead backend cannot stall the caller's
	// request for the whole request deadline.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error(ctx, "audit write dropped", "event", event, "error", err)
	}
}

var _ Sink = (*PostgresSink)(nil)
