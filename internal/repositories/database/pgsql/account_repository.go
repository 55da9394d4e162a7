package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	"github.com/keypanel/key_panel_app/internal/models"
)

// PgxAccountRepository persists accounts and their wallet balances. The
// users.wallet column is the balance store of record: any disagreement with
// the live cache is resolved in this column's favor.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Name:         d.Name,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		Wallet:       d.Wallet,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Wallet:       m.Wallet,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
}

const accountColumns = `account_id, name, username, password_hash, role, wallet, is_active, created_at, created_by`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO users (account_id, name, username, password_hash, role, wallet, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID, m.Name, m.Username, m.PasswordHash, m.Role, m.Wallet, m.IsActive, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: username %q is already taken", apperrors.ErrDuplicate, m.Username)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findAccount(ctx, `SELECT `+accountColumns+` FROM users WHERE account_id = $1`, accountID)
}

func (r *PgxAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findAccount(ctx, `SELECT `+accountColumns+` FROM users WHERE username = $1`, username)
}

func (r *PgxAccountRepository) findAccount(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var m models.Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&m.AccountID, &m.Name, &m.Username, &m.PasswordHash, &m.Role, &m.Wallet, &m.IsActive, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.listAccounts(ctx, `SELECT `+accountColumns+` FROM users ORDER BY created_at DESC`)
}

func (r *PgxAccountRepository) ListAccountsByCreator(ctx context.Context, creatorID string) ([]domain.Account, error) {
	return r.listAccounts(ctx, `SELECT `+accountColumns+` FROM users WHERE created_by = $1 ORDER BY created_at DESC`, creatorID)
}

func (r *PgxAccountRepository) listAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.Name, &m.Username, &m.PasswordHash, &m.Role, &m.Wallet, &m.IsActive, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount marks an account as inactive. Accounts are never deleted.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = false WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	_ = now // deactivation timestamp is not persisted; created_at suffices for audits
	return nil
}

// GetWalletBalance reads the authoritative balance. Absent accounts read as 0.
func (r *PgxAccountRepository) GetWalletBalance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, `SELECT wallet FROM users WHERE account_id = $1`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading wallet balance: %w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return balance, nil
}

// CompareAndSwapWallet writes newBalance only when the stored balance still
// equals expected. The WHERE clause makes the read-modify-write race visible
// instead of silently losing one writer's update.
func (r *PgxAccountRepository) CompareAndSwapWallet(ctx context.Context, accountID string, expected, newBalance int64) error {
	if newBalance < 0 {
		return fmt.Errorf("wallet must stay non-negative: %w", apperrors.ErrValidation)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET wallet = $3 WHERE account_id = $1 AND wallet = $2`,
		accountID, expected, newBalance,
	)
	if err != nil {
		return fmt.Errorf("writing wallet balance: %w: %v", apperrors.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the balance moved underneath us or the account is gone.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE account_id = $1)`, accountID).Scan(&exists); err != nil {
			return fmt.Errorf("checking account after wallet conflict: %w: %v", apperrors.ErrStoreUnavailable, err)
		}
		if !exists {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrWalletConflict)
	}
	return nil
}
