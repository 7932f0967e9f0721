package accountd_test

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/luminos-labs/accountd"
)

// memStore is an in-memory AccountStore with the same contract as the Mongo
// implementation: unique email, rich NotFound errors, expiry filtering
// inside FindByResetToken.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*accountd.Account
}

func newMemStore() *memStore {
	return &memStore{accounts: map[string]*accountd.Account{}}
}

func (m *memStore) Create(_ context.Context, account *accountd.Account) (*accountd.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return nil, goerrors.New("duplicate email", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict)
		}
	}

	now := time.Now()
	stored := *account
	stored.ID = bson.NewObjectID()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.accounts[stored.ID.Hex()] = &stored

	clone := stored
	return &clone, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*accountd.Account, error) {
	return m.find(func(a *accountd.Account) bool { return a.Email == email })
}

func (m *memStore) FindByID(_ context.Context, id string) (*accountd.Account, error) {
	return m.find(func(a *accountd.Account) bool { return a.ID.Hex() == id })
}

func (m *memStore) FindByActivationToken(_ context.Context, token string) (*accountd.Account, error) {
	return m.find(func(a *accountd.Account) bool {
		return a.ActivationToken != nil && *a.ActivationToken == token
	})
}

func (m *memStore) FindByResetToken(_ context.Context, token string, now time.Time) (*accountd.Account, error) {
	return m.find(func(a *accountd.Account) bool {
		return a.ResetPasswordToken != nil && *a.ResetPasswordToken == token &&
			a.ResetPasswordExpires != nil && a.ResetPasswordExpires.After(now)
	})
}

func (m *memStore) Save(_ context.Context, account *accountd.Account) (*accountd.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.ID.Hex()]; !ok {
		return nil, storeNotFound()
	}

	stored := *account
	stored.UpdatedAt = time.Now()
	m.accounts[stored.ID.Hex()] = &stored

	clone := stored
	return &clone, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

func (m *memStore) find(match func(*accountd.Account) bool) (*accountd.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if match(a) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, storeNotFound()
}

func storeNotFound() error {
	return goerrors.New("account not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

// sentMail records a single notification.
type sentMail struct {
	Kind             string
	Email            string
	Name             string
	Token            string
	ExpiresInMinutes int
}

// recordingSender captures notifications and optionally fails.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingSender) SendActivationEmail(_ context.Context, email, name, token string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{Kind: "activation", Email: email, Name: name, Token: token})
	return nil
}

func (r *recordingSender) SendPasswordResetEmail(_ context.Context, email, name, token string, expiresInMinutes int) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{Kind: "reset", Email: email, Name: name, Token: token, ExpiresInMinutes: expiresInMinutes})
	return nil
}

func (r *recordingSender) last() (sentMail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return sentMail{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *recordingSender) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
