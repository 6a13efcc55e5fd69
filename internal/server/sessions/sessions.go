// Package sessions issues and verifies the stateless signed tokens that
// authenticate the administrative principal. There is no server-side session
// table: a token carries its own subject and expiry, and the only persistent
// piece is the HMAC signing secret, kept in the kv store and created lazily
// on first use.
package sessions

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
	"github.com/golang-jwt/jwt/v5"
)

// secretRecordKey is the fixed kv key holding the signing secret.
const secretRecordKey = "auth:session-secret"

// SecretSize is the size in bytes of a freshly generated signing secret.
const SecretSize = 32

// TokenVersion is the claims-format version stamped into every issued
// token. Verification rejects tokens carrying any other version.
const TokenVersion = 1

// Claims is the token payload: registered sub/iat/exp plus the format
// version.
type Claims struct {
	jwt.RegisteredClaims
	Version int `json:"ver"`
}

// Service signs and checks session tokens.
type Service struct {
	store  kv.Store
	logger logging.Logger
	now    func() time.Time

	mu     sync.Mutex
	secret []byte
}

func NewService(store kv.Store, logger logging.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// getSecret returns the process-wide signing secret, creating and
// persisting one on first use. Concurrent cold starts may each generate a
// candidate; the store's get-or-put picks a single winner they all adopt.
func (s *Service) getSecret(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secret != nil {
		return s.secret, nil
	}

	fresh := common.GenerateRandByteArray(SecretSize)
	candidate := kv.String(base64.StdEncoding.EncodeToString(fresh))
	winner, err := s.store.GetOrPut(ctx, secretRecordKey, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to load session secret: %w", err)
	}

	secret, err := base64.StdEncoding.DecodeString(winner.StringOr(""))
	if err != nil || len(secret) == 0 {
		return nil, fmt.Errorf("session secret record is malformed: %w", common.ErrBackendFailure)
	}
	s.secret = secret
	return s.secret, nil
}

// Issue signs a token for subject that expires ttl from now.
func (s *Service) Issue(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	secret, err := s.getSecret(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Version: TokenVersion,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Every negative outcome, whether the
// token is malformed, forged, carries a wrong version or has expired, is
// reported as common.ErrInvalidToken without further detail; only a failure
// to load the signing secret surfaces as a backend error.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	secret, err := s.getSecret(ctx)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Version != TokenVersion {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
