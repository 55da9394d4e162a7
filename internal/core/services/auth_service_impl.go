package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	portsrepo "github.com/keypanel/key_panel_app/internal/core/ports/repositories"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
)

// ErrInvalidCredentials hides whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// authServiceImpl implements the AuthSvcFacade interface
type authServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountReader
	jwtSecret   string
	jwtIssuer   string
	jwtExpiry   time.Duration
}

// NewAuthServiceImpl creates a new authentication service.
func NewAuthServiceImpl(repo portsrepo.AccountReader, jwtSecret, jwtIssuer string, jwtExpiry time.Duration) portssvc.AuthSvcFacade {
	return &authServiceImpl{
		accountRepo: repo,
		jwtSecret:   jwtSecret,
		jwtIssuer:   jwtIssuer,
		jwtExpiry:   jwtExpiry,
	}
}

var _ portssvc.AuthSvcFacade = (*authServiceImpl)(nil)

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to load account for login", slog.String("username", req.Username))
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", apperrors.ErrForbidden)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   account.AccountID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	s.LogInfo(ctx, "Account logged in",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   dto.ToAccountResponse(account),
	}, nil
}
