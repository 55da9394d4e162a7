package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting account does not outrank the target
// of a privileged operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidAmount indicates a non-positive amount or quantity was supplied
// to a ledger operation. Rejected before any I/O.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// ErrInsufficientBalance indicates a debit was requested for more credits
// than the wallet holds. No side effects are performed.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// ErrStoreUnavailable indicates a backing store read/write failed. The
// operation aborts; retry is left to the caller.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrWalletConflict indicates a compare-and-swap wallet update lost a race
// with a concurrent mutation. Callers re-read the balance and retry.
var ErrWalletConflict = errors.New("wallet balance changed concurrently")

// ErrLedgerInconsistency indicates the domain side-effect of a debit
// succeeded but the subsequent balance write failed, leaving the system
// over-issued relative to payment. This is real financial drift and must
// reach an operator, never be swallowed.
var ErrLedgerInconsistency = errors.New("ledger inconsistency: side effect committed without balance deduction")
