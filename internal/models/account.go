// Package models holds the persistence-shaped records mapped to and from the
// domain types by the repositories.
package models

import "time"

// Account is the database representation of a panel account.
type Account struct {
	AccountID    string    `db:"account_id"`
	Name         string    `db:"name"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Wallet       int64     `db:"wallet"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	CreatedBy    string    `db:"created_by"`
}
