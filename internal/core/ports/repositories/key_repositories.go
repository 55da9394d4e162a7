package repositories

import (
	"context"
	"time"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

// KeyReader defines read operations for license keys
type KeyReader interface {
	// FindKeyByString retrieves a key by its display string (XXXX-XXXX-XXXX-XXXX).
	FindKeyByString(ctx context.Context, key string) (*domain.LicenseKey, error)

	// FindKeyByID retrieves a key by its primary identifier.
	FindKeyByID(ctx context.Context, keyID string) (*domain.LicenseKey, error)

	// ListKeys retrieves the most recent keys, newest first, capped at limit.
	ListKeys(ctx context.Context, limit int) ([]domain.LicenseKey, error)

	// ListKeysByCreator retrieves the keys issued by the given account, newest first.
	ListKeysByCreator(ctx context.Context, creatorID string, limit int) ([]domain.LicenseKey, error)
}

// KeyWriter defines write operations for license keys
type KeyWriter interface {
	// SaveKeys persists a batch of freshly generated keys atomically:
	// either all keys are inserted or none are.
	SaveKeys(ctx context.Context, keys []domain.LicenseKey) error

	// UpdateKeyStatus transitions a key to the given status.
	UpdateKeyStatus(ctx context.Context, keyID string, status domain.KeyStatus) error

	// BindKeyHWID records the device a key was first used on.
	BindKeyHWID(ctx context.Context, keyID string, hwid string, usedAt time.Time) error

	// DeleteKey permanently removes a key record.
	DeleteKey(ctx context.Context, keyID string) error
}

// KeyRepositoryFacade combines all key-related repository interfaces
type KeyRepositoryFacade interface {
	KeyReader
	KeyWriter
}
