package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/dbx"
	"github.com/dmitrijs2005/gophpress/internal/logging"
)

// DefaultOwner is the owner discriminator used when none is configured. It
// matches the column default applied by the owner-scope migration.
const DefaultOwner = "default"

// PostgresStore is the production Store implementation over a kv_records
// table. Depending on the capability detected at construction it scopes
// every statement by the configured owner or runs unscoped against the
// legacy single-owner schema.
type PostgresStore struct {
	db     *sql.DB
	cap    Capability
	owner  string
	logger logging.Logger
	now    func() time.Time
}

// NewPostgresStore probes the schema capability once and returns a store
// bound to it. A failing probe degrades to the unscoped legacy schema
// rather than making the store inoperable.
func NewPostgresStore(ctx context.Context, db *sql.DB, owner string, logger logging.Logger) *PostgresStore {
	if owner == "" {
		owner = DefaultOwner
	}
	c := DetectCapability(ctx, db)
	if c.OwnerColumn {
		logger.Info(ctx, "kv store ready", "schema", "owner-scoped", "owner", owner)
	} else {
		logger.Info(ctx, "kv store ready", "schema", "legacy")
	}
	return &PostgresStore{db: db, cap: c, owner: owner, logger: logger, now: time.Now}
}

// Capability returns the schema capability the store was constructed with.
func (s *PostgresStore) Capability() Capability { return s.cap }

// Owner returns the owner discriminator the store scopes by. It is
// meaningful only when Capability().OwnerColumn is true.
func (s *PostgresStore) Owner() string { return s.owner }

func (s *PostgresStore) Put(ctx context.Context, key string, value Value) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode kv[%s]: %w", key, err)
	}
	query := `INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	args := []any{key, string(data), s.now().UTC()}
	if s.cap.OwnerColumn {
		query = `INSERT INTO kv_records (key, owner, value, updated_at) VALUES ($1, $2, $3, $4)
        ON CONFLICT (key, owner) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
		args = []any{key, s.owner, string(data), s.now().UTC()}
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put kv[%s]: %w", key, classify(err))
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Value, bool, error) {
	query := `SELECT value FROM kv_records WHERE key = $1;`
	args := []any{key}
	if s.cap.OwnerColumn {
		query = `SELECT value FROM kv_records WHERE key = $1 AND owner = $2;`
		args = []any{key, s.owner}
	}
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("failed to get kv[%s]: %w", key, classify(err))
	}
	var value Value
	if err := json.Unmarshal(raw, &value); err != nil {
		return Value{}, false, fmt.Errorf("failed to decode kv[%s]: %w: %v", key, common.ErrBackendFailure, err)
	}
	return value, true, nil
}

// GetOrPut resolves first-writer-wins creation races inside one
// transaction: the conditional insert and the read-back see a single
// consistent snapshot, so every racing caller returns the same winner.
func (s *PostgresStore) GetOrPut(ctx context.Context, key string, value Value) (Value, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Value{}, fmt.Errorf("failed to encode kv[%s]: %w", key, err)
	}

	insert := `INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (key) DO NOTHING;`
	insertArgs := []any{key, string(data), s.now().UTC()}
	sel := `SELECT value FROM kv_records WHERE key = $1;`
	selArgs := []any{key}
	if s.cap.OwnerColumn {
		insert = `INSERT INTO kv_records (key, owner, value, updated_at) VALUES ($1, $2, $3, $4)
        ON CONFLICT (key, owner) DO NOTHING;`
		insertArgs = []any{key, s.owner, string(data), s.now().UTC()}
		sel = `SELECT value FROM kv_records WHERE key = $1 AND owner = $2;`
		selArgs = []any{key, s.owner}
	}

	var raw []byte
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, insert, insertArgs...); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, sel, selArgs...).Scan(&raw)
	})
	if err != nil {
		return Value{}, fmt.Errorf("failed to get-or-put kv[%s]: %w", key, classify(err))
	}

	var winner Value
	if err := json.Unmarshal(raw, &winner); err != nil {
		return Value{}, fmt.Errorf("failed to decode kv[%s]: %w: %v", key, common.ErrBackendFailure, err)
	}
	return winner, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_records WHERE key = $1;`
	args := []any{key}
	if s.cap.OwnerColumn {
		query = `DELETE FROM kv_records WHERE key = $1 AND owner = $2;`
		args = []any{key, s.owner}
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, classify(err))
	}
	return nil
}

func (s *PostgresStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeLikePrefix(prefix) + "%"
	query := `SELECT key FROM kv_records WHERE key LIKE $1 ESCAPE '\' ORDER BY key DESC;`
	args := []any{pattern}
	if s.cap.OwnerColumn {
		query = `SELECT key FROM kv_records WHERE key LIKE $1 ESCAPE '\' AND owner = $2 ORDER BY key DESC;`
		args = []any{pattern, s.owner}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv[%s*]: %w", prefix, classify(err))
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to list kv[%s*]: %w", prefix, classify(err))
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list kv[%s*]: %w", prefix, classify(err))
	}
	return keys, nil
}

// escapeLikePrefix makes a caller-supplied prefix safe to splice into a
// LIKE pattern: backslash, percent and underscore lose their
// metacharacter meaning.
func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}

var _ Store = (*PostgresStore)(nil)
