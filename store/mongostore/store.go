// Package mongostore implements the account store on MongoDB.
//
// Email uniqueness and the reset-token expiry check are delegated to the
// database: the unique index turns concurrent duplicate creates into a
// single well-defined conflict, and FindByResetToken filters expiry inside
// the query so application code never compares clocks.
package mongostore

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/luminos-labs/accountd"
)

const accountsCollection = "users"

// Store is an accountd.AccountStore backed by a MongoDB collection.
type Store struct {
	col *mongo.Collection
	now func() time.Time
}

// New returns a store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		col: db.Collection(accountsCollection),
		now: time.Now,
	}
}

// WithClock injects a custom clock (useful for tests).
func (s *Store) WithClock(clock func() time.Time) *Store {
	if clock != nil {
		s.now = clock
	}
	return s
}

// EnsureIndexes creates the unique email index. Run once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure account indexes")
	}
	return nil
}

// Create inserts a new account. A duplicate email surfaces as a conflict.
func (s *Store) Create(ctx context.Context, account *accountd.Account) (*accountd.Account, error) {
	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, accountd.Conflict("User with this email already exists")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert account")
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		account.ID = id
	}

	return account, nil
}

// FindByEmail looks up an account by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (*accountd.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByID looks up an account by its hex object id. A malformed id is a
// bad request, not a miss.
func (s *Store) FindByID(ctx context.Context, id string) (*accountd.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid account id").
			WithTextCode(accountd.TextCodeInvalidID).
			WithCode(goerrors.CodeBadRequest)
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// FindByActivationToken looks up the pending account holding the token.
func (s *Store) FindByActivationToken(ctx context.Context, token string) (*accountd.Account, error) {
	return s.findOne(ctx, bson.M{"activationToken": token})
}

// FindByResetToken looks up an account by reset token, matching only while
// the expiry lies beyond now. Expired and absent behave identically.
func (s *Store) FindByResetToken(ctx context.Context, token string, now time.Time) (*accountd.Account, error) {
	return s.findOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now},
	})
}

// Save replaces the stored document with the given account state.
// Last write wins: two concurrent resets on the same token are not
// serialized here; the second save is idempotent in effect because the
// token fields were already cleared. A stricter guard would switch to a
// conditional clear-token-if-still-matching update.
func (s *Store) Save(ctx context.Context, account *accountd.Account) (*accountd.Account, error) {
	account.UpdatedAt = s.now()

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": account.ID}, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, accountd.Conflict("User with this email already exists")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to save account")
	}

	if res.MatchedCount == 0 {
		return nil, notFound()
	}

	return account, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*accountd.Account, error) {
	var account accountd.Account
	if err := s.col.FindOne(ctx, filter).Decode(&account); err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed")
	}
	return &account, nil
}

func notFound() *goerrors.Error {
	return goerrors.New("account not found", goerrors.CategoryNotFound).
		WithTextCode(accountd.TextCodeNotFound).
		WithCode(goerrors.CodeNotFound)
}
