package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
)

// RepositoryContainer holds all the pgsql-backed repositories.
type RepositoryContainer struct {
	Account portsrepo.AccountRepositoryFacade
	Key     portsrepo.KeyRepositoryFacade
}

// NewRepositoryContainer creates all repositories over one connection pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		Account: NewPgxAccountRepository(pool),
		Key:     NewPgxKeyRepository(pool),
	}
}
