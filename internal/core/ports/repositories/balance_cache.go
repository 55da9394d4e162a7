package repositories

import (
	"context"
	"encoding/json"
)

// LiveBalanceCache is the realtime scalar store mirroring wallet balances for
// low-latency push updates. It is never independently authoritative: every
// value in it is derivable from the balance store, and the reconciler may
// freely overwrite it.
//
// There is deliberately no read-and-increment primitive. All balance
// arithmetic happens against the balance store; callers write the full
// resulting integer here. Server-side increments are what historically left
// structured values in cells that must hold plain numbers.
type LiveBalanceCache interface {
	// SetScalar unconditionally overwrites the cell with a plain numeric value.
	SetScalar(ctx context.Context, accountID string, value int64) error

	// Subscribe registers a push listener for an account's cell. The callback
	// fires once immediately with the current raw value (nil when the cell was
	// never written), then on every subsequent change. The value is delivered
	// raw and untyped so the caller can classify it; it must not be trusted to
	// be a number. The returned cancel func unregisters the listener.
	Subscribe(accountID string, fn func(raw json.RawMessage)) (cancel func())
}
