package domain

import (
	"fmt"
	"time"
)

// KeyType identifies the duration tier of a license key.
type KeyType string

const (
	KeyTypeWeekly  KeyType = "weekly"
	KeyTypeMonthly KeyType = "monthly"
)

// Validity returns how long a key of this type remains usable after issue.
func (t KeyType) Validity() time.Duration {
	switch t {
	case KeyTypeMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// KeyStatus is the lifecycle state of a license key.
type KeyStatus string

const (
	KeyStatusActive  KeyStatus = "active"
	KeyStatusRevoked KeyStatus = "revoked"
	KeyStatusExpired KeyStatus = "expired"
)

// LicenseKey is a single issued license key record.
type LicenseKey struct {
	KeyID       string     `json:"keyID"` // Primary Key (UUID)
	Key         string     `json:"key"`   // XXXX-XXXX-XXXX-XXXX display string
	Type        KeyType    `json:"type"`
	Credits     int64      `json:"credits"` // unit cost paid at issue time
	Status      KeyStatus  `json:"status"`
	CreatorName string     `json:"creatorName"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	HWID        string     `json:"hwid,omitempty"` // bound on first use, empty until then
	UsedAt      *time.Time `json:"usedAt,omitempty"`
	AuditFields
}

// PriceTable maps key types to their unit cost in credits.
type PriceTable map[KeyType]int64

// DefaultPriceTable is the fixed cost table consulted by key generation.
var DefaultPriceTable = PriceTable{
	KeyTypeWeekly:  700,
	KeyTypeMonthly: 1600,
}

// Cost returns the unit cost for the given key type.
func (p PriceTable) Cost(t KeyType) (int64, error) {
	cost, ok := p[t]
	if !ok {
		return 0, fmt.Errorf("no price for key type %q", t)
	}
	return cost, nil
}
