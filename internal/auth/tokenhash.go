package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DeviceTokenPrefix marks a credential as a device token rather than a session JWT.
const DeviceTokenPrefix = "vdt_"

// TokenHasher computes the keyed hash under which device tokens are stored.
type TokenHasher struct {
	pepper []byte
}

// NewTokenHasher creates a hasher keyed with pepper. blake2b accepts keys up
// to 64 bytes, so longer peppers are reduced to their unkeyed digest first.
func NewTokenHasher(pepper string) *TokenHasher {
	key := []byte(pepper)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &TokenHasher{pepper: key}
}

// Hash returns hex(blake2b-256(key=pepper, raw)).
func (h *TokenHasher) Hash(raw string) string {
	mac, err := blake2b.New256(h.pepper)
	if err != nil {
		// Only reachable with a key longer than 64 bytes, which NewTokenHasher prevents.
		panic(fmt.Sprintf("blake2b: %v", err))
	}
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateDeviceToken creates a random device credential.
// Returns the raw token (shown to the user once) and its keyed hash (stored).
func (h *TokenHasher) GenerateDeviceToken() (raw string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate random bytes: %w", err)
	}

	raw = DeviceTokenPrefix + base64.RawURLEncoding.EncodeToString(b)
	return raw, h.Hash(raw), nil
}

// IsDeviceToken reports whether raw carries the device-token prefix.
func IsDeviceToken(raw string) bool {
	return strings.HasPrefix(raw, DeviceTokenPrefix)
}
