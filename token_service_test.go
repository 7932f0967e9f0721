package accountd_test

import (
	"encoding/hex"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminos-labs/accountd"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	ts := accountd.NewTokenService([]byte(testSigningKey), time.Hour, nil)

	t.Run("round trip returns the account id", func(t *testing.T) {
		token, err := ts.IssueSessionToken("652f1a2b3c4d5e6f78901234")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		accountID, err := ts.VerifySessionToken(token)
		require.NoError(t, err)
		assert.Equal(t, "652f1a2b3c4d5e6f78901234", accountID)
	})

	t.Run("empty account id is rejected", func(t *testing.T) {
		_, err := ts.IssueSessionToken("")
		assert.Error(t, err)
	})

	t.Run("expired token fails", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		issuer := accountd.NewTokenService([]byte(testSigningKey), time.Hour, nil).
			WithClock(func() time.Time { return past })

		token, err := issuer.IssueSessionToken("652f1a2b3c4d5e6f78901234")
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		assert.Equal(t, accountd.ErrTokenExpired, err)
	})

	t.Run("token signed with a different key fails", func(t *testing.T) {
		other := accountd.NewTokenService([]byte("other-key"), time.Hour, nil)

		token, err := other.IssueSessionToken("652f1a2b3c4d5e6f78901234")
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		require.Error(t, err)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, accountd.ErrTokenMalformed.TextCode, rich.TextCode)
	})

	t.Run("garbage input fails", func(t *testing.T) {
		_, err := ts.VerifySessionToken("not.a.jwt")
		assert.Error(t, err)

		_, err = ts.VerifySessionToken("")
		assert.Error(t, err)
	})
}

func TestGenerateOpaqueToken(t *testing.T) {
	ts := accountd.NewTokenService([]byte(testSigningKey), time.Hour, nil)

	first, err := ts.GenerateOpaqueToken()
	require.NoError(t, err)
	second, err := ts.GenerateOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	raw, err := hex.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
