package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/core/services"
	"github.com/keypanel/key_panel_app/internal/dto"
)

const testJWTSecret = "test-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAuthServiceImpl(suite.mockRepo, testJWTSecret, "key-panel-app", 12*time.Hour)
}

func (suite *AuthServiceTestSuite) storedAccount(password string, active bool) *domain.Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)
	return &domain.Account{
		AccountID:    uuid.NewString(),
		Username:     "owner",
		PasswordHash: string(hash),
		Role:         domain.RoleOwner,
		IsActive:     active,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	account := suite.storedAccount("correct-horse", true)
	suite.mockRepo.On("FindAccountByUsername", mock.Anything, "owner").Return(account, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Username: "owner", Password: "correct-horse"})

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, resp.Account.AccountID)
	suite.WithinDuration(time.Now().Add(12*time.Hour), resp.ExpiresAt, time.Minute)

	// The token must carry the account ID as its subject.
	parsed, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	suite.Equal(account.AccountID, claims.Subject)
	suite.Equal("key-panel-app", claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	account := suite.storedAccount("correct-horse", true)
	suite.mockRepo.On("FindAccountByUsername", mock.Anything, "owner").Return(account, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Username: "owner", Password: "battery-staple"})

	suite.Require().ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUsernameLooksLikeWrongPassword() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"})

	suite.Require().ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_DisabledAccount() {
	ctx := context.Background()
	account := suite.storedAccount("correct-horse", false)
	suite.mockRepo.On("FindAccountByUsername", mock.Anything, "owner").Return(account, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Username: "owner", Password: "correct-horse"})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
