package services

import (
	"context"

	"github.com/keypanel/key_panel_app/internal/core/domain"
	"github.com/keypanel/key_panel_app/internal/dto"
)

// KeySvcFacade manages the license key lifecycle.
type KeySvcFacade interface {
	// GenerateKeys creates req.Quantity keys of req.Type for the actor,
	// debiting quantity*unitCost from the actor's wallet atomically with key
	// creation.
	GenerateKeys(ctx context.Context, actorID string, req dto.GenerateKeysRequest) (*dto.GenerateKeysResponse, error)

	// ListKeys retrieves the keys visible to the actor: all keys for an
	// owner, otherwise the actor's own issued keys.
	ListKeys(ctx context.Context, actorID string, limit int) ([]domain.LicenseKey, error)

	// RevokeKey marks a key revoked. Owners may revoke any key; other roles
	// only keys they issued.
	RevokeKey(ctx context.Context, actorID string, keyID string) error

	// DeleteKey permanently removes a key. Same visibility rule as RevokeKey.
	DeleteKey(ctx context.Context, actorID string, keyID string) error

	// VerifyKey is the public validation path used by the desktop client:
	// status and expiry checks plus first-use HWID binding. Invalid keys are
	// reported in the response, not as an error.
	VerifyKey(ctx context.Context, key string, hwid string) (*dto.VerifyKeyResponse, error)
}
