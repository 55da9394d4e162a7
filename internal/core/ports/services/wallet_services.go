package services

import "context"

// WalletSvcFacade exposes the two mutating ledger operations plus reads.
//
// Both mutations follow the same contract: re-read the authoritative balance
// at call time, compute the new value, compare-and-swap it into the balance
// store (retrying on conflict), then mirror the result into the live balance
// cache best-effort.
type WalletSvcFacade interface {
	// GetBalance reads the authoritative wallet balance.
	GetBalance(ctx context.Context, accountID string) (int64, error)

	// Credit tops up the target's wallet by amount. The actor must strictly
	// outrank the target. Returns the new balance.
	Credit(ctx context.Context, actorID, targetID string, amount int64) (int64, error)

	// Debit spends quantity*unitCost from the actor's own wallet, running
	// sideEffect between the sufficiency check and the balance write. Only
	// self-service debits exist; there is no cross-account debit. Returns the
	// new balance.
	Debit(ctx context.Context, accountID string, quantity int, unitCost int64, sideEffect func(ctx context.Context) error) (int64, error)

	// WatchBalance delivers clean balance values for an account as they
	// change, repairing corrupt cache cells along the way. The first value
	// arrives immediately. The returned cancel func stops the watch.
	WatchBalance(accountID string, onBalance func(balance int64)) (cancel func())
}
