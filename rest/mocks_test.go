package rest_test

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/mock"

	"github.com/luminos-labs/accountd"
)

// MockLifecycle implements rest.AccountLifecycle
type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Register(ctx context.Context, name, email, password string, role accountd.Role) (*accountd.Account, error) {
	args := m.Called(ctx, name, email, password, role)
	account, _ := args.Get(0).(*accountd.Account)
	return account, args.Error(1)
}

func (m *MockLifecycle) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockLifecycle) Activate(ctx context.Context, activationToken string) (*accountd.Account, error) {
	args := m.Called(ctx, activationToken)
	account, _ := args.Get(0).(*accountd.Account)
	return account, args.Error(1)
}

func (m *MockLifecycle) ResendActivation(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockLifecycle) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockLifecycle) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	args := m.Called(ctx, resetToken, newPassword)
	return args.Error(0)
}

// MockTokenService implements accountd.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueSessionToken(accountID string) (string, error) {
	args := m.Called(accountID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifySessionToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) GenerateOpaqueToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// stubStore implements accountd.AccountStore for middleware tests; only
// FindByID has behavior.
type stubStore struct {
	account *accountd.Account
	err     error
}

func (s *stubStore) FindByID(_ context.Context, id string) (*accountd.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func (s *stubStore) Create(context.Context, *accountd.Account) (*accountd.Account, error) {
	return nil, stubNotImplemented()
}

func (s *stubStore) FindByEmail(context.Context, string) (*accountd.Account, error) {
	return nil, stubNotImplemented()
}

func (s *stubStore) FindByActivationToken(context.Context, string) (*accountd.Account, error) {
	return nil, stubNotImplemented()
}

func (s *stubStore) FindByResetToken(context.Context, string, time.Time) (*accountd.Account, error) {
	return nil, stubNotImplemented()
}

func (s *stubStore) Save(context.Context, *accountd.Account) (*accountd.Account, error) {
	return nil, stubNotImplemented()
}

func stubNotImplemented() error {
	return goerrors.New("not implemented in stub", goerrors.CategoryInternal)
}
