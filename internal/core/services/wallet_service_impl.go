package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/observability"
)

// walletCASRetries bounds the read-compute-CAS retry loop. Conflicts mean a
// concurrent mutation on the same account, which is rare in practice (each
// wallet has one owner plus at most a handful of superiors topping it up).
const walletCASRetries = 3

// walletServiceImpl implements the WalletSvcFacade interface.
//
// The balance store is the single source of truth. Every mutation re-reads
// it at call time, never a locally cached value, and writes through a
// compare-and-swap keyed on the value it read. The live balance cache is a
// one-way mirror: written best-effort after the store, repaired by the
// reconciler when it diverges.
type walletServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       portsrepo.LiveBalanceCache
	reconciler  *WalletReconciler
}

// NewWalletServiceImpl creates the wallet ledger service.
func NewWalletServiceImpl(accountRepo portsrepo.AccountRepositoryFacade, cache portsrepo.LiveBalanceCache, reconciler *WalletReconciler) portssvc.WalletSvcFacade {
	return &walletServiceImpl{
		accountRepo: accountRepo,
		cache:       cache,
		reconciler:  reconciler,
	}
}

var _ portssvc.WalletSvcFacade = (*walletServiceImpl)(nil)

func (s *walletServiceImpl) GetBalance(ctx context.Context, accountID string) (int64, error) {
	balance, err := s.accountRepo.GetWalletBalance(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read wallet balance", slog.String("account_id", accountID))
		return 0, err
	}
	return balance, nil
}

// Credit tops up the target's wallet. Validation order is fixed: amount
// first (no I/O at all for non-positive amounts), then the rank gate, then
// the balance read.
func (s *walletServiceImpl) Credit(ctx context.Context, actorID, targetID string, amount int64) (int64, error) {
	if amount <= 0 {
		observability.LedgerOperations.WithLabelValues("credit", "invalid_amount").Inc()
		return 0, fmt.Errorf("credit amount %d: %w", amount, apperrors.ErrInvalidAmount)
	}

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		observability.LedgerOperations.WithLabelValues("credit", "error").Inc()
		return 0, fmt.Errorf("loading acting account: %w", err)
	}
	target, err := s.accountRepo.FindAccountByID(ctx, targetID)
	if err != nil {
		observability.LedgerOperations.WithLabelValues("credit", "error").Inc()
		return 0, fmt.Errorf("loading target account: %w", err)
	}

	if !actor.Role.CanManage(target.Role) {
		observability.LedgerOperations.WithLabelValues("credit", "forbidden").Inc()
		s.LogWarn(ctx, "Credit denied by rank gate",
			slog.String("actor_role", string(actor.Role)),
			slog.String("target_role", string(target.Role)))
		return 0, fmt.Errorf("a %q cannot credit a %q account: %w", actor.Role, target.Role, apperrors.ErrForbidden)
	}

	newBalance, err := s.adjustBalance(ctx, targetID, func(current int64) (int64, error) {
		return current + amount, nil
	})
	if err != nil {
		observability.LedgerOperations.WithLabelValues("credit", casResultLabel(err)).Inc()
		return 0, err
	}

	s.mirror(ctx, targetID, newBalance)
	observability.LedgerOperations.WithLabelValues("credit", "ok").Inc()
	s.LogInfo(ctx, "Wallet credited",
		slog.String("target_id", targetID),
		slog.Int64("amount", amount),
		slog.Int64("new_balance", newBalance))
	return newBalance, nil
}

// Debit spends quantity*unitCost from the account's own wallet. The domain
// side-effect runs after the sufficiency check and before the balance write;
// a store failure after the side-effect committed is reported as
// ErrLedgerInconsistency because the system is then over-issued relative to
// payment.
func (s *walletServiceImpl) Debit(ctx context.Context, accountID string, quantity int, unitCost int64, sideEffect func(ctx context.Context) error) (int64, error) {
	if quantity <= 0 || unitCost <= 0 {
		observability.LedgerOperations.WithLabelValues("debit", "invalid_amount").Inc()
		return 0, fmt.Errorf("quantity %d at unit cost %d: %w", quantity, unitCost, apperrors.ErrInvalidAmount)
	}
	cost := int64(quantity) * unitCost

	balance, err := s.accountRepo.GetWalletBalance(ctx, accountID)
	if err != nil {
		observability.LedgerOperations.WithLabelValues("debit", "error").Inc()
		return 0, fmt.Errorf("reading balance before debit: %w", err)
	}
	if cost > balance {
		observability.LedgerOperations.WithLabelValues("debit", "insufficient_balance").Inc()
		return 0, fmt.Errorf("cost %d exceeds balance %d: %w", cost, balance, apperrors.ErrInsufficientBalance)
	}

	if sideEffect != nil {
		if err := sideEffect(ctx); err != nil {
			observability.LedgerOperations.WithLabelValues("debit", "error").Inc()
			return 0, fmt.Errorf("debit side effect: %w", err)
		}
	}

	// The side effect is committed. From here on, any failure to deduct is
	// real financial drift and must reach an operator.
	newBalance, err := s.adjustBalance(ctx, accountID, func(current int64) (int64, error) {
		if cost > current {
			return 0, apperrors.ErrInsufficientBalance
		}
		return current - cost, nil
	})
	if err != nil {
		observability.LedgerInconsistencies.Inc()
		observability.LedgerOperations.WithLabelValues("debit", "error").Inc()
		s.LogError(ctx, err, "LEDGER INCONSISTENCY: side effect committed but balance deduction failed",
			slog.String("account_id", accountID),
			slog.Int64("cost", cost))
		return 0, fmt.Errorf("%w: %v", apperrors.ErrLedgerInconsistency, err)
	}

	s.mirror(ctx, accountID, newBalance)
	observability.LedgerOperations.WithLabelValues("debit", "ok").Inc()
	s.LogInfo(ctx, "Wallet debited",
		slog.String("account_id", accountID),
		slog.Int64("cost", cost),
		slog.Int64("new_balance", newBalance))
	return newBalance, nil
}

// WatchBalance delegates to the reconciler: clean values flow to onBalance,
// corrupt cache cells are repaired from the balance store.
func (s *walletServiceImpl) WatchBalance(accountID string, onBalance func(balance int64)) (cancel func()) {
	return s.reconciler.Watch(accountID, onBalance)
}

// adjustBalance runs the read-compute-CAS loop against the balance store.
// compute receives the freshly read balance and returns the value to write.
func (s *walletServiceImpl) adjustBalance(ctx context.Context, accountID string, compute func(current int64) (int64, error)) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < walletCASRetries; attempt++ {
		current, err := s.accountRepo.GetWalletBalance(ctx, accountID)
		if err != nil {
			return 0, fmt.Errorf("reading balance: %w", err)
		}
		next, err := compute(current)
		if err != nil {
			return 0, err
		}
		if next < 0 {
			return 0, fmt.Errorf("refusing to write negative balance %d: %w", next, apperrors.ErrValidation)
		}

		err = s.accountRepo.CompareAndSwapWallet(ctx, accountID, current, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, apperrors.ErrWalletConflict) {
			return 0, fmt.Errorf("writing balance: %w", err)
		}
		lastErr = err
		s.LogDebug(ctx, "Wallet CAS conflict, retrying",
			slog.String("account_id", accountID),
			slog.Int("attempt", attempt+1))
	}
	return 0, fmt.Errorf("wallet update contended %d times: %w", walletCASRetries, lastErr)
}

// mirror writes the new balance into the live cache. Failures are logged and
// swallowed: the cache is never authoritative and the reconciler converges it
// from the balance store.
func (s *walletServiceImpl) mirror(ctx context.Context, accountID string, balance int64) {
	if err := s.cache.SetScalar(ctx, accountID, balance); err != nil {
		s.LogWarn(ctx, "Live balance cache write failed, cache will lag until reconciled",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
	}
}

func casResultLabel(err error) string {
	if errors.Is(err, apperrors.ErrWalletConflict) {
		return "conflict"
	}
	return "error"
}
