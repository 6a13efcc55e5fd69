package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/cryptox"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
)

// --- helpers ---

func newTestManager(store kv.Store) *Manager {
	m := NewManager(store, logging.Discard())
	m.iterations = 1_000 // keep the test suite fast; production uses cryptox.DefaultIterations
	m.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

type faultyStore struct {
	*kv.MemoryStore
	getErr      error
	getOrPutErr error
}

func (f *faultyStore) Get(ctx context.Context, key string) (kv.Value, bool, error) {
	if f.getErr != nil {
		return kv.Value{}, false, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *faultyStore) GetOrPut(ctx context.Context, key string, value kv.Value) (kv.Value, error) {
	if f.getOrPutErr != nil {
		return kv.Value{}, f.getOrPutErr
	}
	return f.MemoryStore.GetOrPut(ctx, key, value)
}

// --- tests ---

func TestEnsurePrincipal_IdempotentSeed(t *testing.T) {
	store := kv.NewMemoryStore()
	m := newTestManager(store)
	ctx := context.Background()

	if err := m.EnsurePrincipal(ctx, "admin@example.com", "pw123"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first, found, err := store.Get(ctx, credentialKey)
	if err != nil || !found {
		t.Fatalf("credential record missing after seed: %v", err)
	}

	if err := m.EnsurePrincipal(ctx, "admin@example.com", "pw123"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, _, _ := store.Get(ctx, credentialKey)
	if !first.Equal(second) {
		t.Fatalf("second seed must not modify the record")
	}

	for i := 0; i < 2; i++ {
		ok, err := m.VerifyPassword(ctx, "admin@example.com", "pw123")
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("verify %d: want true", i)
		}
	}
}

func TestEnsurePrincipal_KeepsRecordOfOtherPrincipal(t *testing.T) {
	store := kv.NewMemoryStore()
	m := newTestManager(store)
	ctx := context.Background()

	if err := m.EnsurePrincipal(ctx, "old@example.com", "oldpw"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := m.EnsurePrincipal(ctx, "new@example.com", "newpw"); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	ok, err := m.VerifyPassword(ctx, "old@example.com", "oldpw")
	if err != nil || !ok {
		t.Fatalf("original credential must survive, got ok=%v err=%v", ok, err)
	}
	ok, _ = m.VerifyPassword(ctx, "new@example.com", "newpw")
	if ok {
		t.Fatalf("second principal must not have been seeded")
	}
}

func TestVerifyPassword_Negatives(t *testing.T) {
	store := kv.NewMemoryStore()
	m := newTestManager(store)
	ctx := context.Background()

	if err := m.EnsurePrincipal(ctx, "admin@example.com", "pw123"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "admin@example.com", "pw124"},
		{"empty password", "admin@example.com", ""},
		{"other principal", "someone@example.com", "pw123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := m.VerifyPassword(ctx, tc.identifier, tc.password)
			if err != nil {
				t.Fatalf("expected negative result, not error: %v", err)
			}
			if ok {
				t.Fatalf("want false")
			}
		})
	}
}

func TestVerifyPassword_NoRecord(t *testing.T) {
	m := newTestManager(kv.NewMemoryStore())

	ok, err := m.VerifyPassword(context.Background(), "admin@example.com", "pw123")
	if err != nil {
		t.Fatalf("missing record is not an error, got %v", err)
	}
	if ok {
		t.Fatalf("want false")
	}
}

func TestVerifyPassword_BackendError(t *testing.T) {
	store := &faultyStore{MemoryStore: kv.NewMemoryStore(), getErr: common.ErrBackendUnavailable}
	m := newTestManager(store)

	_, err := m.VerifyPassword(context.Background(), "admin@example.com", "pw123")
	if !errors.Is(err, common.ErrBackendUnavailable) {
		t.Fatalf("want ErrBackendUnavailable, got %v", err)
	}
}

func TestEnsurePrincipal_BackendError(t *testing.T) {
	store := &faultyStore{MemoryStore: kv.NewMemoryStore(), getOrPutErr: common.ErrBackendFailure}
	m := newTestManager(store)

	err := m.EnsurePrincipal(context.Background(), "admin@example.com", "pw123")
	if !errors.Is(err, common.ErrBackendFailure) {
		t.Fatalf("want ErrBackendFailure, got %v", err)
	}
}

func TestVerifyPassword_UsesStoredParameters(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	seeder := newTestManager(store)
	seeder.iterations = 2_000
	if err := seeder.EnsurePrincipal(ctx, "admin@example.com", "pw123"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A manager configured with a different iteration count must still
	// verify against the parameters recorded at seed time.
	verifier := newTestManager(store)
	verifier.iterations = 5_000
	ok, err := verifier.VerifyPassword(ctx, "admin@example.com", "pw123")
	if err != nil || !ok {
		t.Fatalf("want true, got ok=%v err=%v", ok, err)
	}
}

func TestVerifyPassword_MalformedRecord(t *testing.T) {
	store := kv.NewMemoryStore()
	m := newTestManager(store)
	ctx := context.Background()

	tests := []struct {
		name   string
		record kv.Value
	}{
		{"bad salt", kv.Map(map[string]kv.Value{
			"identifier": kv.String("admin@example.com"),
			"algorithm":  kv.String(cryptox.Algorithm),
			"iterations": kv.Number(1000),
			"salt":       kv.String("*not base64*"),
			"hash":       kv.String(""),
		})},
		{"unknown algorithm", kv.Map(map[string]kv.Value{
			"identifier": kv.String("admin@example.com"),
			"algorithm":  kv.String("bcrypt"),
		})},
		{"zero iterations", kv.Map(map[string]kv.Value{
			"identifier": kv.String("admin@example.com"),
			"algorithm":  kv.String(cryptox.Algorithm),
			"iterations": kv.Number(0),
			"salt":       kv.String(""),
			"hash":       kv.String(""),
		})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Put(ctx, credentialKey, tc.record); err != nil {
				t.Fatalf("put: %v", err)
			}
			ok, err := m.VerifyPassword(ctx, "admin@example.com", "pw123")
			if err != nil {
				t.Fatalf("malformed record is a negative, not an error: %v", err)
			}
			if ok {
				t.Fatalf("want false")
			}
		})
	}
}
