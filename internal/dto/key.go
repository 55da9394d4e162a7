package dto

import (
	"time"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

// GenerateKeysRequest defines the expected JSON body for generating keys.
type GenerateKeysRequest struct {
	Type     string `json:"type" binding:"required,oneof=weekly monthly"`
	Quantity int    `json:"quantity" binding:"required,gte=1,lte=50"`
}

// KeyResponse defines the JSON representation of a license key.
type KeyResponse struct {
	KeyID       string     `json:"keyID"`
	Key         string     `json:"key"`
	Type        string     `json:"type"`
	Credits     int64      `json:"credits"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	CreatorName string     `json:"creatorName"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	HWID        string     `json:"hwid,omitempty"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
}

// GenerateKeysResponse reports the outcome of a key generation request.
type GenerateKeysResponse struct {
	Keys       []KeyResponse `json:"keys"`
	Deducted   int64         `json:"deducted"`
	NewBalance int64         `json:"newBalance"`
}

// VerifyKeyResponse is the public verification result for a desktop client.
type VerifyKeyResponse struct {
	Valid     bool   `json:"valid"`
	Key       string `json:"key,omitempty"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	HWID      string `json:"hwid,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	DaysLeft  *int   `json:"daysLeft,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ToKeyResponse maps a domain license key to its API representation.
func ToKeyResponse(k *domain.LicenseKey) KeyResponse {
	return KeyResponse{
		KeyID:       k.KeyID,
		Key:         k.Key,
		Type:        string(k.Type),
		Credits:     k.Credits,
		Status:      string(k.Status),
		CreatedBy:   k.CreatedBy,
		CreatorName: k.CreatorName,
		CreatedAt:   k.CreatedAt,
		ExpiresAt:   k.ExpiresAt,
		HWID:        k.HWID,
		UsedAt:      k.UsedAt,
	}
}

// ToKeyResponses maps a slice of domain keys to API representations.
func ToKeyResponses(keys []domain.LicenseKey) []KeyResponse {
	out := make([]KeyResponse, 0, len(keys))
	for i := range keys {
		out = append(out, ToKeyResponse(&keys[i]))
	}
	return out
}
