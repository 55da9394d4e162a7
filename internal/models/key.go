package models

import (
	"database/sql"
	"time"
)

// LicenseKey is the database representation of an issued license key.
type LicenseKey struct {
	KeyID       string         `db:"key_id"`
	Key         string         `db:"key"`
	Type        string         `db:"type"`
	Credits     int64          `db:"credits"`
	Status      string         `db:"status"`
	CreatorName string         `db:"creator_name"`
	ExpiresAt   time.Time      `db:"expires_at"`
	HWID        sql.NullString `db:"hwid"`
	UsedAt      sql.NullTime   `db:"used_at"`
	CreatedAt   time.Time      `db:"created_at"`
	CreatedBy   string         `db:"created_by"`
}
