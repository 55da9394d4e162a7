package repositories

import (
	"context"
	"time"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUsername retrieves an account by its unique login name.
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// ListAccounts retrieves every account, in descending creation order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByCreator retrieves the accounts created by the given account.
	ListAccountsByCreator(ctx context.Context, creatorID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. Accounts are never
	// physically deleted.
	DeactivateAccount(ctx context.Context, accountID string, now time.Time) error
}

// BalanceStore defines the authoritative wallet balance operations. On any
// disagreement between stores, values read here win.
type BalanceStore interface {
	// GetWalletBalance reads the current wallet balance; absent accounts read as 0.
	GetWalletBalance(ctx context.Context, accountID string) (int64, error)

	// CompareAndSwapWallet writes newBalance only if the stored balance still
	// equals expected. Returns apperrors.ErrWalletConflict when it does not,
	// so callers can re-read and retry.
	CompareAndSwapWallet(ctx context.Context, accountID string, expected, newBalance int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	BalanceStore
}
