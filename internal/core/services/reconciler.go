package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	"github.com/keypanel/key_panel_app/internal/observability"
)

// WalletReconciler watches live balance cache cells and repairs corrupt ones
// from the balance store.
//
// Legitimate writes from this system are always plain numbers (no increment
// primitive exists), so any structured value in a cell necessarily comes from
// a since-removed code path that used server-side increments. Such values are
// never interpreted as balances: the authoritative balance is read from the
// store and written over the corrupt cell, which re-triggers the subscription
// with a clean value handled by the normal path. Repair is best-effort; a
// failed repair is logged and swallowed so watchers keep their last known
// good value instead of erroring.
type WalletReconciler struct {
	store  portsrepo.BalanceStore
	cache  portsrepo.LiveBalanceCache
	logger *slog.Logger
}

// NewWalletReconciler creates a reconciler over the given store pair.
func NewWalletReconciler(store portsrepo.BalanceStore, cache portsrepo.LiveBalanceCache, logger *slog.Logger) *WalletReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletReconciler{store: store, cache: cache, logger: logger}
}

// Watch subscribes to the account's cache cell. Clean values (plain numbers;
// absent cells read as 0) are delivered to onBalance. Corrupt values trigger
// a repair instead and are never delivered.
func (r *WalletReconciler) Watch(accountID string, onBalance func(balance int64)) (cancel func()) {
	return r.cache.Subscribe(accountID, func(raw json.RawMessage) {
		balance, ok := ClassifyScalar(raw)
		if ok {
			if onBalance != nil {
				onBalance(balance)
			}
			return
		}
		r.repair(accountID, raw)
	})
}

// Reconcile classifies the account's current cell once and repairs it if
// corrupt. Used by operational tooling; Watch covers the steady state.
func (r *WalletReconciler) Reconcile(ctx context.Context, accountID string, raw json.RawMessage) {
	if _, ok := ClassifyScalar(raw); ok {
		return
	}
	r.repair(accountID, raw)
}

func (r *WalletReconciler) repair(accountID string, raw json.RawMessage) {
	observability.WalletRepairs.Inc()
	r.logger.Warn("Corrupt live balance cache value, repairing from balance store",
		slog.String("account_id", accountID),
		slog.String("raw", string(raw)))

	ctx := context.Background()
	authoritative, err := r.store.GetWalletBalance(ctx, accountID)
	if err != nil {
		r.logger.Warn("Wallet repair failed: could not read balance store",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		return
	}
	if err := r.cache.SetScalar(ctx, accountID, authoritative); err != nil {
		r.logger.Warn("Wallet repair failed: could not write cache",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
	}
	// The overwrite re-triggers the subscription with a clean scalar; no
	// balance is delivered for the corrupt notification itself.
}

// ClassifyScalar decides whether a raw cache value is a usable balance.
// A plain JSON number is; an absent cell or JSON null reads as 0. Anything
// else (objects, arrays, strings, booleans, garbage) is corrupt and must not
// be interpreted as a balance.
func ClassifyScalar(raw json.RawMessage) (int64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, true
	}

	if v, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		return v, true
	}
	// Tolerate float encodings of whole numbers (1.23e3 style), which some
	// realtime stores produce for values written as integers.
	if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}
