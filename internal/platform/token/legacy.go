package token

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LegacyCodec produces the reversible base64 form "id:email:millis". It is
// not signed: anyone can forge a token for any subject id. It exists for
// clients that were issued tokens in this format.
type LegacyCodec struct {
	Now func() time.Time
}

func (c LegacyCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c LegacyCodec) Mint(subjectID int64, email string) (string, error) {
	raw := fmt.Sprintf("%d:%s:%d", subjectID, email, c.now().UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// Decode requires at least an id and an email field. The issued-at field
// is optional and ignored when it does not parse.
func (c LegacyCodec) Decode(token string) (Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Claims{}, ErrInvalid
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) < 2 {
		return Claims{}, ErrInvalid
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	claims := Claims{SubjectID: id, Email: parts[1]}
	if len(parts) > 2 {
		if ms, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err == nil {
			claims.IssuedAt = time.UnixMilli(ms)
		}
	}
	return claims, nil
}
