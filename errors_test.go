package accountd_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminos-labs/accountd"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name     string
		err      *goerrors.Error
		code     int
		textCode string
	}{
		{"bad request", accountd.BadRequest("nope"), goerrors.CodeBadRequest, accountd.TextCodeBadRequest},
		{"unauthorized", accountd.Unauthorized("nope"), goerrors.CodeUnauthorized, accountd.TextCodeUnauthorized},
		{"forbidden", accountd.Forbidden("nope"), goerrors.CodeForbidden, accountd.TextCodeForbidden},
		{"not found", accountd.NotFound("nope"), goerrors.CodeNotFound, accountd.TextCodeNotFound},
		{"conflict", accountd.Conflict("nope"), goerrors.CodeConflict, accountd.TextCodeConflict},
		{"internal", accountd.Internal("nope"), goerrors.CodeInternal, accountd.TextCodeServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.textCode, tc.err.TextCode)
			assert.Equal(t, "nope", tc.err.Message)
		})
	}
}

func TestValidationFailed(t *testing.T) {
	err := accountd.ValidationFailed(map[string]string{"email": "Invalid email format"})

	assert.Equal(t, goerrors.CategoryValidation, err.Category)
	assert.Equal(t, accountd.TextCodeValidation, err.TextCode)

	fields, ok := err.Metadata[accountd.MetadataFieldErrors].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Invalid email format", fields["email"])
}

func TestWrapInternal(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, accountd.WrapInternal(nil, "ignored"))
	})

	t.Run("rich errors pass through unchanged", func(t *testing.T) {
		conflict := accountd.Conflict("already there")
		wrapped := accountd.WrapInternal(conflict, "should not replace")

		var rich *goerrors.Error
		require.True(t, goerrors.As(wrapped, &rich))
		assert.Equal(t, goerrors.CategoryConflict, rich.Category)
		assert.Equal(t, "already there", rich.Message)
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		wrapped := accountd.WrapInternal(errors.New("driver exploded"), "unable to login")

		var rich *goerrors.Error
		require.True(t, goerrors.As(wrapped, &rich))
		assert.Equal(t, goerrors.CategoryInternal, rich.Category)
		assert.Equal(t, accountd.TextCodeServer, rich.TextCode)
		assert.Equal(t, "unable to login", rich.Message)
	})
}
