package accountd

import (
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor applied to every stored credential.
const bcryptCost = 10

// ErrNoEmptyString rejects empty plaintext before it reaches the backend.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the single mismatch signal; callers must
// not leak anything more specific than this.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// BcryptHasher implements PasswordAuthenticator on bcrypt with a randomized
// per-hash salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher at the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcryptCost}
}

// WithCost overrides the work factor. Values below the bcrypt minimum fall
// back to the default cost.
func (h *BcryptHasher) WithCost(cost int) *BcryptHasher {
	if cost >= bcrypt.MinCost {
		h.cost = cost
	}
	return h
}

// HashPassword generates a salted hash for the given cleartext.
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return string(hashed), nil
}

// ComparePasswordAndHash validates the given cleartext against the stored
// hash. Mismatches return ErrMismatchedHashAndPassword; anything else means
// the stored hash itself is unusable.
func (h *BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if goerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "malformed password hash")
	}
	return nil
}
