package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCreator(ctx context.Context, creatorID string) ([]domain.Account, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	args := m.Called(ctx, accountID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) GetWalletBalance(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CompareAndSwapWallet(ctx context.Context, accountID string, expected, newBalance int64) error {
	args := m.Called(ctx, accountID, expected, newBalance)
	return args.Error(0)
}

// MockKeyRepository is a mock type for the KeyRepositoryFacade interface
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) SaveKeys(ctx context.Context, keys []domain.LicenseKey) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockKeyRepository) FindKeyByID(ctx context.Context, keyID string) (*domain.LicenseKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *MockKeyRepository) FindKeyByString(ctx context.Context, key string) (*domain.LicenseKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *MockKeyRepository) ListKeys(ctx context.Context, limit int) ([]domain.LicenseKey, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LicenseKey), args.Error(1)
}

func (m *MockKeyRepository) ListKeysByCreator(ctx context.Context, creatorID string, limit int) ([]domain.LicenseKey, error) {
	args := m.Called(ctx, creatorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LicenseKey), args.Error(1)
}

func (m *MockKeyRepository) UpdateKeyStatus(ctx context.Context, keyID string, status domain.KeyStatus) error {
	args := m.Called(ctx, keyID, status)
	return args.Error(0)
}

func (m *MockKeyRepository) BindKeyHWID(ctx context.Context, keyID string, hwid string, usedAt time.Time) error {
	args := m.Called(ctx, keyID, hwid, usedAt)
	return args.Error(0)
}

func (m *MockKeyRepository) DeleteKey(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

// MockBalanceStore is a mock type for the BalanceStore interface
type MockBalanceStore struct {
	mock.Mock
}

func (m *MockBalanceStore) GetWalletBalance(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceStore) CompareAndSwapWallet(ctx context.Context, accountID string, expected, newBalance int64) error {
	args := m.Called(ctx, accountID, expected, newBalance)
	return args.Error(0)
}

// MockLiveBalanceCache is a mock type for the LiveBalanceCache interface
type MockLiveBalanceCache struct {
	mock.Mock
}

func (m *MockLiveBalanceCache) SetScalar(ctx context.Context, accountID string, value int64) error {
	args := m.Called(ctx, accountID, value)
	return args.Error(0)
}

func (m *MockLiveBalanceCache) Subscribe(accountID string, fn func(raw json.RawMessage)) func() {
	args := m.Called(accountID, fn)
	if cancel, ok := args.Get(0).(func()); ok {
		return cancel
	}
	return func() {}
}
