package utils // package utils provides helper functions for token, id and code generation

import (
	"crypto/rand" // secure random number generation
	"encoding/hex" // hex encoding for token strings
	"fmt"
	"math/big" // bounded random integers for OTP codes
	"strings"
	"time"

	"github.com/google/uuid" // random source for entity id suffixes
)

// NewSessionToken returns a 256-bit session token encoded as 64 hex
// characters. The token is opaque: it carries no claims and is only
// meaningful as a lookup key into the session store, which is what makes
// logout able to revoke it server-side.
func NewSessionToken() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// NewOTP returns a six digit one-time password drawn uniformly from
// the full 000000–999999 space, zero padded. Codes are only ever
// handled as strings, so a leading zero survives storage intact.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewID builds an entity identifier of the form <prefix>_<millis>_<suffix>.
// The millisecond clock keeps ids roughly sortable by creation time and
// the random suffix disambiguates ids minted in the same millisecond.
func NewID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
