// Package token mints and decodes the session tokens handed out on login
// and registration. Tokens are never persisted; a token is resolved to a
// user on every request by decoding it and looking up its subject.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is returned by Decode for any token that does not carry a
// usable subject.
var ErrInvalid = errors.New("invalid token")

// Claims are the facts a token carries about its subject.
type Claims struct {
	SubjectID int64
	Email     string
	IssuedAt  time.Time
}

// Codec converts between Claims and their opaque string form. Decode must
// not have side effects.
type Codec interface {
	Mint(subjectID int64, email string) (string, error)
	Decode(token string) (Claims, error)
}

const (
	FormatSigned = "signed"
	FormatLegacy = "legacy"
)

// New returns the codec for the configured format.
func New(format string, key []byte, ttl time.Duration) (Codec, error) {
	switch strings.ToLower(format) {
	case "", FormatSigned:
		return NewSignedCodec(key, ttl)
	case FormatLegacy:
		return LegacyCodec{}, nil
	}
	return nil, fmt.Errorf("unknown token format %q", format)
}

// ResolveSigningKey decodes a hex-encoded signing key or, when envValue is
// empty, generates a random 32-byte key. The second return value is true
// when a random key was generated.
func ResolveSigningKey(envValue string) ([]byte, bool, error) {
	if envValue != "" {
		decoded, err := hex.DecodeString(envValue)
		if err != nil {
			return nil, false, fmt.Errorf("invalid TOKEN_SIGNING_KEY hex value: %w", err)
		}
		return decoded, false, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate signing key: %w", err)
	}
	return key, true, nil
}
