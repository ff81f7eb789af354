// Package token holds the codec for refresh-token storage: a deterministic
// digest so rows can be looked up by hash without ever persisting the raw
// credential, and a random id generator to decorrelate successive tokens.
package token

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Hash returns the hex sha256 digest of a raw token. Deterministic on purpose:
// the store is queried by this value.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RandomID returns an unpredictable identifier embedded in refresh-token
// payloads so two rotations within the same second never sign identical claims.
func RandomID() string {
	return uuid.NewString()
}
