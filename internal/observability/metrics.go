// Package observability holds the panel's Prometheus metrics. Counters are
// registered on the default registry and served via /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerOperations counts wallet mutations by operation (credit|debit)
	// and result (ok|invalid_amount|forbidden|insufficient_balance|conflict|error).
	LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panel_ledger_operations_total",
		Help: "Wallet ledger operations by operation and result.",
	}, []string{"operation", "result"})

	// WalletRepairs counts corrupt live-cache cells overwritten from the
	// balance store by the reconciler.
	WalletRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panel_wallet_repairs_total",
		Help: "Corrupt live balance cache values repaired from the balance store.",
	})

	// LedgerInconsistencies counts debits whose side effect committed but
	// whose balance write failed. Non-zero values mean uncorrected financial
	// drift and need operator attention.
	LedgerInconsistencies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panel_ledger_inconsistencies_total",
		Help: "Debits that issued keys without deducting payment.",
	})

	// KeysGenerated counts issued license keys by type.
	KeysGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panel_keys_generated_total",
		Help: "License keys generated by type.",
	}, []string{"type"})
)
