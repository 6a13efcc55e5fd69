// Package cryptox implements the password key derivation used for the
// administrative credential: salted, iterated PBKDF2 over HMAC-SHA256, plus
// the constant-time comparison needed to check a derived key without leaking
// timing information.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/gophpress/internal/common"
)

const (
	// DefaultIterations is the PBKDF2 iteration count for newly created
	// credentials. Deliberately slow; stored with the record so it can be
	// raised later without invalidating existing credentials.
	DefaultIterations = 100_000

	// SaltSize is the number of random salt bytes for new credentials.
	SaltSize = 16

	// KeySize is the derived key length in bytes.
	KeySize = 32
)

// Algorithm tags the derivation scheme inside stored credential records.
const Algorithm = "pbkdf2-sha256"

// GenerateSalt returns a fresh random salt for a new credential.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DeriveKey derives a KeySize-byte key from password and salt using PBKDF2
// with HMAC-SHA256 and the given iteration count.
//
// The same (password, salt, iterations) triple always yields the same key,
// which is what verification relies on; a different salt yields an unrelated
// key even for the same password.
func DeriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}

// Equal compares two derived keys in constant time. The comparison cost does
// not depend on the position of the first differing byte.
func Equal(derived, candidate []byte) bool {
	return subtle.ConstantTimeCompare(derived, candidate) == 1
}
