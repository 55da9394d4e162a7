package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       portsrepo.LiveBalanceCache
}

// NewAccountServiceImpl creates a new account service.
func NewAccountServiceImpl(repo portsrepo.AccountRepositoryFacade, cache portsrepo.LiveBalanceCache) portssvc.AccountSvcFacade {
	return &accountServiceImpl{
		accountRepo: repo,
		cache:       cache,
	}
}

var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// CreateAccount creates a subordinate account. The creator must strictly
// outrank the new account's role; the initial wallet value is seeded into
// both the balance store and the live cache.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	creator, err := s.accountRepo.FindAccountByID(ctx, creatorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load creating account", slog.String("creator_id", creatorID))
		return nil, err
	}
	if !creator.IsActive {
		return nil, fmt.Errorf("creating account is inactive: %w", apperrors.ErrForbidden)
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	if !creator.Role.CanManage(role) {
		s.LogWarn(ctx, "Account creation denied by rank gate",
			slog.String("creator_role", string(creator.Role)),
			slog.String("requested_role", string(role)))
		return nil, fmt.Errorf("a %q cannot create a %q account: %w", creator.Role, role, apperrors.ErrForbidden)
	}
	if req.Wallet < 0 {
		return nil, fmt.Errorf("initial wallet must be non-negative: %w", apperrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		Wallet:       req.Wallet,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: creatorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("username", req.Username))
		return nil, err
	}

	// Seed the live cache so the first dashboard load pushes a value without
	// waiting for a ledger operation. Best-effort, same as the mirror writes.
	if err := s.cache.SetScalar(ctx, account.AccountID, account.Wallet); err != nil {
		s.LogWarn(ctx, "Failed to seed live balance cache for new account",
			slog.String("account_id", account.AccountID),
			slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(role)),
		slog.Int64("initial_wallet", account.Wallet))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// ListManagedAccounts returns every account for owners, otherwise the
// accounts the actor created.
func (s *accountServiceImpl) ListManagedAccounts(ctx context.Context, actorID string) ([]domain.Account, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner {
		return s.accountRepo.ListAccounts(ctx)
	}
	return s.accountRepo.ListAccountsByCreator(ctx, actorID)
}

// DeactivateAccount disables a subordinate account. Accounts are never
// physically deleted.
func (s *accountServiceImpl) DeactivateAccount(ctx context.Context, actorID string, accountID string) error {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !actor.Role.CanManage(target.Role) {
		return fmt.Errorf("a %q cannot deactivate a %q account: %w", actor.Role, target.Role, apperrors.ErrForbidden)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
