package services

import (
	"context"

	"github.com/keypanel/key_panel_app/internal/core/domain"
	"github.com/keypanel/key_panel_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListManagedAccounts retrieves the accounts visible to the actor: every
	// account for an owner, otherwise the accounts the actor created.
	ListManagedAccounts(ctx context.Context, actorID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account of strictly lower rank than the
	// creator, seeding both balance stores with the initial wallet value.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// DeactivateAccount marks a subordinate account as inactive.
	DeactivateAccount(ctx context.Context, actorID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
