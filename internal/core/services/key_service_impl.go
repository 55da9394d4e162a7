package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
	"github.com/keypanel/key_panel_app/internal/observability"
	"github.com/keypanel/key_panel_app/internal/utils"
)

// keyServiceImpl implements the KeySvcFacade interface
type keyServiceImpl struct {
	BaseService
	keyRepo     portsrepo.KeyRepositoryFacade
	accountRepo portsrepo.AccountReader
	wallet      portssvc.WalletSvcFacade
	prices      domain.PriceTable
}

// NewKeyServiceImpl creates a new license key service.
func NewKeyServiceImpl(keyRepo portsrepo.KeyRepositoryFacade, accountRepo portsrepo.AccountReader, wallet portssvc.WalletSvcFacade, prices domain.PriceTable) portssvc.KeySvcFacade {
	if prices == nil {
		prices = domain.DefaultPriceTable
	}
	return &keyServiceImpl{
		keyRepo:     keyRepo,
		accountRepo: accountRepo,
		wallet:      wallet,
		prices:      prices,
	}
}

var _ portssvc.KeySvcFacade = (*keyServiceImpl)(nil)

// GenerateKeys issues req.Quantity keys of req.Type, paying for them from the
// actor's wallet. Key insertion runs as the debit's side effect, so an
// insufficient balance rejects the whole request before any key exists.
func (s *keyServiceImpl) GenerateKeys(ctx context.Context, actorID string, req dto.GenerateKeysRequest) (*dto.GenerateKeysResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsActive {
		return nil, fmt.Errorf("account is inactive: %w", apperrors.ErrForbidden)
	}

	keyType := domain.KeyType(req.Type)
	unitCost, err := s.prices.Cost(keyType)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	now := time.Now()
	keys := make([]domain.LicenseKey, req.Quantity)
	for i := range keys {
		keys[i] = domain.LicenseKey{
			KeyID:       uuid.NewString(),
			Key:         utils.NewLicenseKeyString(),
			Type:        keyType,
			Credits:     unitCost,
			Status:      domain.KeyStatusActive,
			CreatorName: actor.Name,
			ExpiresAt:   now.Add(keyType.Validity()),
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				CreatedBy: actorID,
			},
		}
	}

	newBalance, err := s.wallet.Debit(ctx, actorID, req.Quantity, unitCost, func(ctx context.Context) error {
		return s.keyRepo.SaveKeys(ctx, keys)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) && !errors.Is(err, apperrors.ErrInvalidAmount) {
			s.LogError(ctx, err, "Key generation failed",
				slog.String("actor_id", actorID),
				slog.String("type", req.Type),
				slog.Int("quantity", req.Quantity))
		}
		return nil, err
	}

	observability.KeysGenerated.WithLabelValues(string(keyType)).Add(float64(req.Quantity))
	s.LogInfo(ctx, "Keys generated",
		slog.String("actor_id", actorID),
		slog.String("type", req.Type),
		slog.Int("quantity", req.Quantity),
		slog.Int64("new_balance", newBalance))

	return &dto.GenerateKeysResponse{
		Keys:       dto.ToKeyResponses(keys),
		Deducted:   int64(req.Quantity) * unitCost,
		NewBalance: newBalance,
	}, nil
}

const defaultKeyListLimit = 200

// ListKeys returns all recent keys for owners, otherwise the actor's own.
func (s *keyServiceImpl) ListKeys(ctx context.Context, actorID string, limit int) ([]domain.LicenseKey, error) {
	if limit <= 0 || limit > defaultKeyListLimit {
		limit = defaultKeyListLimit
	}
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner {
		return s.keyRepo.ListKeys(ctx, limit)
	}
	return s.keyRepo.ListKeysByCreator(ctx, actorID, limit)
}

func (s *keyServiceImpl) RevokeKey(ctx context.Context, actorID string, keyID string) error {
	if err := s.authorizeKeyMutation(ctx, actorID, keyID); err != nil {
		return err
	}
	if err := s.keyRepo.UpdateKeyStatus(ctx, keyID, domain.KeyStatusRevoked); err != nil {
		s.LogError(ctx, err, "Failed to revoke key", slog.String("key_id", keyID))
		return err
	}
	s.LogInfo(ctx, "Key revoked", slog.String("key_id", keyID))
	return nil
}

func (s *keyServiceImpl) DeleteKey(ctx context.Context, actorID string, keyID string) error {
	if err := s.authorizeKeyMutation(ctx, actorID, keyID); err != nil {
		return err
	}
	if err := s.keyRepo.DeleteKey(ctx, keyID); err != nil {
		s.LogError(ctx, err, "Failed to delete key", slog.String("key_id", keyID))
		return err
	}
	s.LogInfo(ctx, "Key deleted", slog.String("key_id", keyID))
	return nil
}

// authorizeKeyMutation allows owners to touch any key, other roles only keys
// they issued.
func (s *keyServiceImpl) authorizeKeyMutation(ctx context.Context, actorID string, keyID string) error {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return err
	}
	key, err := s.keyRepo.FindKeyByID(ctx, keyID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleOwner && key.CreatedBy != actorID {
		return fmt.Errorf("key belongs to another reseller: %w", apperrors.ErrForbidden)
	}
	return nil
}

// VerifyKey validates a key for the desktop client. Invalid keys produce a
// response with Valid=false and a reason; errors are reserved for store
// failures.
func (s *keyServiceImpl) VerifyKey(ctx context.Context, key string, hwid string) (*dto.VerifyKeyResponse, error) {
	clean := strings.ToUpper(strings.TrimSpace(key))
	if clean == "" {
		return &dto.VerifyKeyResponse{Valid: false, Error: "Missing required parameter: key"}, nil
	}

	record, err := s.keyRepo.FindKeyByString(ctx, clean)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.VerifyKeyResponse{Valid: false, Error: "Key not found"}, nil
		}
		return nil, err
	}

	if record.Status == domain.KeyStatusRevoked {
		return &dto.VerifyKeyResponse{Valid: false, Error: "Key has been revoked"}, nil
	}

	now := time.Now()
	if now.After(record.ExpiresAt) {
		// Best-effort status transition; the expiry check itself decides.
		if record.Status != domain.KeyStatusExpired {
			if uerr := s.keyRepo.UpdateKeyStatus(ctx, record.KeyID, domain.KeyStatusExpired); uerr != nil {
				s.LogWarn(ctx, "Failed to mark key expired", slog.String("key_id", record.KeyID), slog.String("error", uerr.Error()))
			}
		}
		return &dto.VerifyKeyResponse{
			Valid:     false,
			Error:     "Key has expired",
			ExpiresAt: record.ExpiresAt.Format(time.RFC3339),
		}, nil
	}

	// HWID binding: first use locks the key to the device.
	boundHWID := record.HWID
	if boundHWID != "" {
		if hwid != "" && hwid != boundHWID {
			return &dto.VerifyKeyResponse{Valid: false, Error: "HWID mismatch: key is locked to a different device"}, nil
		}
	} else if hwid != "" {
		if err := s.keyRepo.BindKeyHWID(ctx, record.KeyID, hwid, now); err != nil {
			return nil, fmt.Errorf("binding HWID: %w", err)
		}
		boundHWID = hwid
	}

	daysLeft := int(time.Until(record.ExpiresAt).Hours()/24) + 1
	return &dto.VerifyKeyResponse{
		Valid:     true,
		Key:       clean,
		Type:      string(record.Type),
		Status:    string(record.Status),
		HWID:      boundHWID,
		ExpiresAt: record.ExpiresAt.Format(time.RFC3339),
		DaysLeft:  &daysLeft,
		Message:   fmt.Sprintf("Key is valid, %d day(s) remaining", daysLeft),
	}, nil
}
