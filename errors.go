package accountd

import (
	goerrors "github.com/goliatone/go-errors"
)

// Stable machine codes attached to every 4xx/5xx response. Clients match on
// these, never on messages.
const (
	TextCodeBadRequest   = "BAD_REQUEST"
	TextCodeValidation   = "VALIDATION_ERROR"
	TextCodeUnauthorized = "UNAUTHORIZED"
	TextCodeForbidden    = "FORBIDDEN"
	TextCodeNotFound     = "NOT_FOUND"
	TextCodeConflict     = "CONFLICT"
	TextCodeServer       = "SERVER_ERROR"

	// Codes for store-native failures remapped at the HTTP boundary.
	TextCodeInvalidID    = "INVALID_ID"
	TextCodeDuplicateKey = "DUPLICATE_KEY"
)

// MetadataFieldErrors is the metadata key carrying a field->message map on
// validation errors.
const MetadataFieldErrors = "fields"

// ErrInvalidCredentials is returned for unknown email and wrong password
// alike so the two cases are indistinguishable from outside.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotActive is returned on login when the password checks out but
// the account was never activated. Only reachable after a successful
// password verification.
var ErrAccountNotActive = goerrors.New("Please activate your account first. Check your email for activation instructions.", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired signals an expired session token.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed signals a session token that failed signature or shape
// checks.
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// BadRequest builds a 400 error.
func BadRequest(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(TextCodeBadRequest).
		WithCode(goerrors.CodeBadRequest)
}

// ValidationFailed builds a 400 error carrying a field->message map.
func ValidationFailed(fields map[string]string) *goerrors.Error {
	return goerrors.New("Validation error", goerrors.CategoryValidation).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{MetadataFieldErrors: fields})
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(TextCodeUnauthorized).
		WithCode(goerrors.CodeUnauthorized)
}

// Forbidden builds a 403 error.
func Forbidden(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryAuthz).
		WithTextCode(TextCodeForbidden).
		WithCode(goerrors.CodeForbidden)
}

// NotFound builds a 404 error.
func NotFound(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound).
		WithCode(goerrors.CodeNotFound)
}

// Conflict builds a 409 error.
func Conflict(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(TextCodeConflict).
		WithCode(goerrors.CodeConflict)
}

// Internal builds a 500 error.
func Internal(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithTextCode(TextCodeServer).
		WithCode(goerrors.CodeInternal)
}

// WrapInternal wraps an unexpected error as a 500. A recognized rich error
// passes through unchanged so domain failures keep their category and code.
func WrapInternal(err error, message string) error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode(TextCodeServer).
		WithCode(goerrors.CodeInternal)
}
