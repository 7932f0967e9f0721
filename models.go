package accountd

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the account's role flag
type Role = string

const (
	// RoleUser is the default role for self-registered accounts
	RoleUser Role = "user"
	// RoleAdmin is the administrative role
	RoleAdmin Role = "admin"
)

// Account is the account model. Password hash and lifecycle tokens are never
// serialized to JSON.
type Account struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string        `bson:"name" json:"name"`
	Email                string        `bson:"email" json:"email"`
	PasswordHash         string        `bson:"password" json:"-"`
	Role                 Role          `bson:"role" json:"role"`
	IsActive             bool          `bson:"isActive" json:"isActive"`
	ActivationToken      *string       `bson:"activationToken" json:"-"`
	ResetPasswordToken   *string       `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time    `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// HasPendingReset reports whether a reset token pair is present. The pair is
// set and cleared together; a half-set pair is a store-level bug.
func (a *Account) HasPendingReset() bool {
	return a.ResetPasswordToken != nil && a.ResetPasswordExpires != nil
}
