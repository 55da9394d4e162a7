package services

import (
	"context"

	"github.com/keypanel/key_panel_app/internal/dto"
)

// AuthSvcFacade authenticates panel accounts.
type AuthSvcFacade interface {
	// Login verifies username/password and issues a signed token. Inactive
	// accounts cannot log in.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
