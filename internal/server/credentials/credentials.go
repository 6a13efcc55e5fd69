// Package credentials seeds and verifies the password credential of the
// administrative principal. The derived credential is persisted through the
// kv store under one well-known key; the plaintext password never is.
package credentials

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/cryptox"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
)

// credentialKey is the fixed kv key holding the single credential record.
// The system supports exactly one administrative principal; which one is
// configuration, not code (see Manager.EnsurePrincipal).
const credentialKey = "auth:credential"

// Manager derives and checks the administrative password hash.
type Manager struct {
	store      kv.Store
	logger     logging.Logger
	iterations int
	now        func() time.Time
}

func NewManager(store kv.Store, logger logging.Logger) *Manager {
	return &Manager{
		store:      store,
		logger:     logger,
		iterations: cryptox.DefaultIterations,
		now:        time.Now,
	}
}

// EnsurePrincipal seeds the credential record for identifier if none exists
// yet. Seeding is idempotent: when a record is already present it is left
// untouched, so a process restart never silently re-hashes live
// credentials. Racing cold starts converge on whichever record the store
// accepts first.
func (m *Manager) EnsurePrincipal(ctx context.Context, identifier, password string) error {
	salt := cryptox.GenerateSalt()
	hash := cryptox.DeriveKey([]byte(password), salt, m.iterations)

	candidate := kv.Map(map[string]kv.Value{
		"identifier": kv.String(identifier),
		"algorithm":  kv.String(cryptox.Algorithm),
		"iterations": kv.Number(float64(m.iterations)),
		"salt":       kv.String(base64.StdEncoding.EncodeToString(salt)),
		"hash":       kv.String(base64.StdEncoding.EncodeToString(hash)),
		"created_at": kv.String(m.now().UTC().Format(time.RFC3339)),
	})

	winner, err := m.store.GetOrPut(ctx, credentialKey, candidate)
	if err != nil {
		return fmt.Errorf("failed to seed credential: %w", err)
	}

	if stored, _ := winner.Field("identifier"); stored.StringOr("") != identifier {
		// Only one principal is supported; a pre-existing record for a
		// different identifier is left as is.
		m.logger.Warn(ctx, "credential record exists for another principal",
			"configured", identifier, "stored", stored.StringOr(""))
	}
	return nil
}

// VerifyPassword re-derives the hash for password using the stored salt and
// iteration count and compares in constant time. A missing record, a
// different principal or a wrong password all return false with no error;
// only backend trouble is an error.
func (m *Manager) VerifyPassword(ctx context.Context, identifier, password string) (bool, error) {
	record, found, err := m.store.Get(ctx, credentialKey)
	if err != nil {
		return false, fmt.Errorf("failed to load credential: %w", err)
	}
	if !found {
		return false, nil
	}

	stored, _ := record.Field("identifier")
	if stored.StringOr("") != identifier {
		return false, nil
	}

	alg, _ := record.Field("algorithm")
	if alg.StringOr("") != cryptox.Algorithm {
		m.logger.Warn(ctx, "credential record uses unknown algorithm", "algorithm", alg.StringOr(""))
		return false, nil
	}

	saltField, _ := record.Field("salt")
	salt, err := base64.StdEncoding.DecodeString(saltField.StringOr(""))
	if err != nil {
		m.logger.Warn(ctx, "credential record has malformed salt", "error", err)
		return false, nil
	}
	hashField, _ := record.Field("hash")
	hash, err := base64.StdEncoding.DecodeString(hashField.StringOr(""))
	if err != nil {
		m.logger.Warn(ctx, "credential record has malformed hash", "error", err)
		return false, nil
	}

	iterField, _ := record.Field("iterations")
	iterations := int(iterField.NumberOr(0))
	if iterations <= 0 {
		return false, nil
	}

	derived := cryptox.DeriveKey([]byte(password), salt, iterations)
	return cryptox.Equal(hash, derived), nil
}
