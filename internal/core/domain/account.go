package domain

// Account represents one identity in the reseller hierarchy.
// This is the primary representation used by services.
type Account struct {
	AccountID    string `json:"accountID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Username     string `json:"username"` // unique login name
	PasswordHash string `json:"-"`        // bcrypt; never serialized
	Role         Role   `json:"role"`
	Wallet       int64  `json:"wallet"` // credit balance, always >= 0
	IsActive     bool   `json:"isActive"`
	AuditFields
}
