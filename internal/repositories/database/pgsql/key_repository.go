package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	"github.com/keypanel/key_panel_app/internal/models"
)

// PgxKeyRepository persists license keys.
type PgxKeyRepository struct {
	pool *pgxpool.Pool
}

// NewPgxKeyRepository creates a new repository for license key data.
func NewPgxKeyRepository(pool *pgxpool.Pool) portsrepo.KeyRepositoryFacade {
	return &PgxKeyRepository{pool: pool}
}

var _ portsrepo.KeyRepositoryFacade = (*PgxKeyRepository)(nil)

func toModelKey(d domain.LicenseKey) models.LicenseKey {
	m := models.LicenseKey{
		KeyID:       d.KeyID,
		Key:         d.Key,
		Type:        string(d.Type),
		Credits:     d.Credits,
		Status:      string(d.Status),
		CreatorName: d.CreatorName,
		ExpiresAt:   d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
	if d.HWID != "" {
		m.HWID = sql.NullString{String: d.HWID, Valid: true}
	}
	if d.UsedAt != nil {
		m.UsedAt = sql.NullTime{Time: *d.UsedAt, Valid: true}
	}
	return m
}

func toDomainKey(m models.LicenseKey) domain.LicenseKey {
	d := domain.LicenseKey{
		KeyID:       m.KeyID,
		Key:         m.Key,
		Type:        domain.KeyType(m.Type),
		Credits:     m.Credits,
		Status:      domain.KeyStatus(m.Status),
		CreatorName: m.CreatorName,
		ExpiresAt:   m.ExpiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
	if m.HWID.Valid {
		d.HWID = m.HWID.String
	}
	if m.UsedAt.Valid {
		t := m.UsedAt.Time
		d.UsedAt = &t
	}
	return d
}

const keyColumns = `key_id, key, type, credits, status, creator_name, expires_at, hwid, used_at, created_at, created_by`

// SaveKeys inserts a batch of keys inside one transaction: either all of
// them exist afterwards or none do.
func (r *PgxKeyRepository) SaveKeys(ctx context.Context, keys []domain.LicenseKey) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin key insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	query := `
		INSERT INTO license_keys (key_id, key, type, credits, status, creator_name, expires_at, hwid, used_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, k := range keys {
		m := toModelKey(k)
		batch.Queue(query, m.KeyID, m.Key, m.Type, m.Credits, m.Status, m.CreatorName, m.ExpiresAt, m.HWID, m.UsedAt, m.CreatedAt, m.CreatedBy)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert %d keys: %w", len(keys), err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit key insert: %w", err)
	}
	return nil
}

func (r *PgxKeyRepository) FindKeyByID(ctx context.Context, keyID string) (*domain.LicenseKey, error) {
	return r.findKey(ctx, `SELECT `+keyColumns+` FROM license_keys WHERE key_id = $1`, keyID)
}

func (r *PgxKeyRepository) FindKeyByString(ctx context.Context, key string) (*domain.LicenseKey, error) {
	return r.findKey(ctx, `SELECT `+keyColumns+` FROM license_keys WHERE key = $1`, key)
}

func (r *PgxKeyRepository) findKey(ctx context.Context, query string, arg any) (*domain.LicenseKey, error) {
	var m models.LicenseKey
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&m.KeyID, &m.Key, &m.Type, &m.Credits, &m.Status, &m.CreatorName, &m.ExpiresAt, &m.HWID, &m.UsedAt, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("license key: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find license key: %w", err)
	}
	k := toDomainKey(m)
	return &k, nil
}

func (r *PgxKeyRepository) ListKeys(ctx context.Context, limit int) ([]domain.LicenseKey, error) {
	return r.listKeys(ctx, `SELECT `+keyColumns+` FROM license_keys ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *PgxKeyRepository) ListKeysByCreator(ctx context.Context, creatorID string, limit int) ([]domain.LicenseKey, error) {
	return r.listKeys(ctx, `SELECT `+keyColumns+` FROM license_keys WHERE created_by = $1 ORDER BY created_at DESC LIMIT $2`, creatorID, limit)
}

func (r *PgxKeyRepository) listKeys(ctx context.Context, query string, args ...any) ([]domain.LicenseKey, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.LicenseKey
	for rows.Next() {
		var m models.LicenseKey
		if err := rows.Scan(&m.KeyID, &m.Key, &m.Type, &m.Credits, &m.Status, &m.CreatorName, &m.ExpiresAt, &m.HWID, &m.UsedAt, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan key row: %w", err)
		}
		keys = append(keys, toDomainKey(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating key rows: %w", err)
	}
	return keys, nil
}

func (r *PgxKeyRepository) UpdateKeyStatus(ctx context.Context, keyID string, status domain.KeyStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE license_keys SET status = $2 WHERE key_id = $1`, keyID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update key %s status: %w", keyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("license key %s: %w", keyID, apperrors.ErrNotFound)
	}
	return nil
}

// BindKeyHWID records the device a key was first used on. Only unbound keys
// are updated, so a concurrent first use cannot rebind the key.
func (r *PgxKeyRepository) BindKeyHWID(ctx context.Context, keyID string, hwid string, usedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE license_keys SET hwid = $2, used_at = $3 WHERE key_id = $1 AND hwid IS NULL`,
		keyID, hwid, usedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to bind key %s hwid: %w", keyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("license key %s already bound: %w", keyID, apperrors.ErrDuplicate)
	}
	return nil
}

func (r *PgxKeyRepository) DeleteKey(ctx context.Context, keyID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM license_keys WHERE key_id = $1`, keyID)
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", keyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("license key %s: %w", keyID, apperrors.ErrNotFound)
	}
	return nil
}
