package services

import (
	"log/slog"
	"time"

	"github.com/keypanel/key_panel_app/internal/core/domain"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
)

// ContainerDeps bundles everything the service layer needs.
type ContainerDeps struct {
	AccountRepo portsrepo.AccountRepositoryFacade
	KeyRepo     portsrepo.KeyRepositoryFacade
	Cache       portsrepo.LiveBalanceCache
	Prices      domain.PriceTable
	JWTSecret   string
	JWTIssuer   string
	JWTExpiry   time.Duration
	Logger      *slog.Logger
}

// NewServiceContainer wires the service implementations together.
func NewServiceContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	reconciler := NewWalletReconciler(deps.AccountRepo, deps.Cache, deps.Logger)
	wallet := NewWalletServiceImpl(deps.AccountRepo, deps.Cache, reconciler)

	return &portssvc.ServiceContainer{
		Account: NewAccountServiceImpl(deps.AccountRepo, deps.Cache),
		Wallet:  wallet,
		Key:     NewKeyServiceImpl(deps.KeyRepo, deps.AccountRepo, wallet, deps.Prices),
		Auth:    NewAuthServiceImpl(deps.AccountRepo, deps.JWTSecret, deps.JWTIssuer, deps.JWTExpiry),
	}
}
