package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genEmail() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z0-9._]{1,16}@[a-z]{1,12}\.[a-z]{2,4}`)
}

func TestProperty_LegacyRoundTrip(t *testing.T) {
	c := LegacyCodec{}
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Int64().Draw(t, "id")
		email := genEmail().Draw(t, "email")

		tok, err := c.Mint(id, email)
		require.NoError(t, err)
		claims, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, id, claims.SubjectID)
		assert.Equal(t, email, claims.Email)
	})
}

func TestProperty_SignedRoundTrip(t *testing.T) {
	c, err := NewSignedCodec([]byte("property-test-key"), 0)
	require.NoError(t, err)
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Int64().Draw(t, "id")
		email := genEmail().Draw(t, "email")

		tok, err := c.Mint(id, email)
		require.NoError(t, err)
		claims, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, id, claims.SubjectID)
		assert.Equal(t, email, claims.Email)
	})
}

// Any byte string without a colon never yields a subject.
func TestProperty_LegacyRejectsColonless(t *testing.T) {
	c := LegacyCodec{}
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.StringMatching(`[^:]*`).Draw(t, "payload")
		_, err := c.Decode(encodeStd(payload))
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
