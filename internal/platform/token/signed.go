package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type signedClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	IssuedAtMs int64  `json:"iat_ms"`
}

// SignedCodec issues HS256 JWTs. A zero TTL issues tokens without expiry.
type SignedCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSignedCodec(key []byte, ttl time.Duration) (*SignedCodec, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key is required")
	}
	return &SignedCodec{key: key, ttl: ttl, now: time.Now}, nil
}

func (c *SignedCodec) Mint(subjectID int64, email string) (string, error) {
	now := c.now()
	claims := signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(subjectID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email:      email,
		IssuedAtMs: now.UnixMilli(),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *SignedCodec) Decode(tokenStr string) (Claims, error) {
	claims := &signedClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(c.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	return Claims{
		SubjectID: id,
		Email:     claims.Email,
		IssuedAt:  time.UnixMilli(claims.IssuedAtMs),
	}, nil
}
