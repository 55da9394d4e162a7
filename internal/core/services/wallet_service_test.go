package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/core/services"
)

type WalletServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockAccountRepository
	mockCache *MockLiveBalanceCache
	service   portssvc.WalletSvcFacade

	actorID  string
	targetID string
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCache = new(MockLiveBalanceCache)
	reconciler := services.NewWalletReconciler(suite.mockRepo, suite.mockCache, nil)
	suite.service = services.NewWalletServiceImpl(suite.mockRepo, suite.mockCache, reconciler)
	suite.actorID = uuid.NewString()
	suite.targetID = uuid.NewString()
}

func (suite *WalletServiceTestSuite) expectAccount(id string, role domain.Role) *domain.Account {
	acc := &domain.Account{AccountID: id, Role: role, IsActive: true}
	suite.mockRepo.On("FindAccountByID", mock.Anything, id).Return(acc, nil)
	return acc
}

// --- Credit ---

func (suite *WalletServiceTestSuite) TestCredit_Success() {
	ctx := context.Background()
	suite.expectAccount(suite.actorID, domain.RoleOwner)
	suite.expectAccount(suite.targetID, domain.RoleSeller)

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.targetID).Return(int64(100), nil).Once()
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.targetID, int64(100), int64(600)).Return(nil).Once()
	suite.mockCache.On("SetScalar", mock.Anything, suite.targetID, int64(600)).Return(nil).Once()

	newBalance, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, 500)

	suite.Require().NoError(err)
	suite.Equal(int64(600), newBalance)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestCredit_InvalidAmountRejectedBeforeIO() {
	ctx := context.Background()

	for _, amount := range []int64{0, -5} {
		_, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, amount)
		suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	}

	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetWalletBalance", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "CompareAndSwapWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestCredit_MasterCannotCreditAdmin() {
	ctx := context.Background()
	suite.expectAccount(suite.actorID, domain.RoleMaster)
	suite.expectAccount(suite.targetID, domain.RoleAdmin)

	_, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, 700)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetWalletBalance", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "CompareAndSwapWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCache.AssertNotCalled(suite.T(), "SetScalar", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestCredit_EqualRankForbidden() {
	ctx := context.Background()
	suite.expectAccount(suite.actorID, domain.RoleAdmin)
	suite.expectAccount(suite.targetID, domain.RoleAdmin)

	_, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, 100)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WalletServiceTestSuite) TestCredit_RetriesOnCASConflict() {
	ctx := context.Background()
	suite.expectAccount(suite.actorID, domain.RoleOwner)
	suite.expectAccount(suite.targetID, domain.RoleSeller)

	// A concurrent top-up moves the balance between our read and our write.
	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.targetID).Return(int64(100), nil).Once()
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.targetID, int64(100), int64(600)).Return(apperrors.ErrWalletConflict).Once()
	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.targetID).Return(int64(150), nil).Once()
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.targetID, int64(150), int64(650)).Return(nil).Once()
	suite.mockCache.On("SetScalar", mock.Anything, suite.targetID, int64(650)).Return(nil).Once()

	newBalance, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, 500)

	suite.Require().NoError(err)
	suite.Equal(int64(650), newBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestCredit_GivesUpAfterRepeatedConflicts() {
	ctx := context.Background()
	suite.expectAccount(suite.actorID, domain.RoleOwner)
	suite.expectAccount(suite.targetID, domain.RoleSeller)

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.targetID).Return(int64(100), nil)
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.targetID, int64(100), int64(600)).Return(apperrors.ErrWalletConflict)

	_, err := suite.service.Credit(ctx, suite.actorID, suite.targetID, 500)

	suite.Require().ErrorIs(err, apperrors.ErrWalletConflict)
	suite.mockCache.AssertNotCalled(suite.T(), "SetScalar", mock.Anything, mock.Anything, mock.Anything)
}

// --- Debit ---

func (suite *WalletServiceTestSuite) TestDebit_TwoWeeklyKeysFrom1600() {
	ctx := context.Background()

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.actorID).Return(int64(1600), nil)
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.actorID, int64(1600), int64(200)).Return(nil).Once()
	suite.mockCache.On("SetScalar", mock.Anything, suite.actorID, int64(200)).Return(nil).Once()

	sideEffectRuns := 0
	newBalance, err := suite.service.Debit(ctx, suite.actorID, 2, 700, func(ctx context.Context) error {
		sideEffectRuns++
		return nil
	})

	suite.Require().NoError(err)
	suite.Equal(int64(200), newBalance)
	suite.Equal(1, sideEffectRuns)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestDebit_InsufficientBalanceHasNoSideEffects() {
	ctx := context.Background()

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.actorID).Return(int64(200), nil).Once()

	sideEffectRuns := 0
	_, err := suite.service.Debit(ctx, suite.actorID, 1, 1600, func(ctx context.Context) error {
		sideEffectRuns++
		return nil
	})

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Zero(sideEffectRuns)
	suite.mockRepo.AssertNotCalled(suite.T(), "CompareAndSwapWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCache.AssertNotCalled(suite.T(), "SetScalar", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestDebit_InvalidQuantityRejectedBeforeIO() {
	ctx := context.Background()

	_, err := suite.service.Debit(ctx, suite.actorID, 0, 700, nil)
	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.service.Debit(ctx, suite.actorID, 2, -1, nil)
	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)

	suite.mockRepo.AssertNotCalled(suite.T(), "GetWalletBalance", mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestDebit_SideEffectFailureLeavesBalanceUntouched() {
	ctx := context.Background()

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.actorID).Return(int64(1600), nil).Once()

	boom := errors.New("insert failed")
	_, err := suite.service.Debit(ctx, suite.actorID, 1, 700, func(ctx context.Context) error {
		return boom
	})

	suite.Require().ErrorIs(err, boom)
	suite.mockRepo.AssertNotCalled(suite.T(), "CompareAndSwapWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestDebit_BalanceWriteFailureIsLedgerInconsistency() {
	ctx := context.Background()

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.actorID).Return(int64(1600), nil)
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.actorID, int64(1600), int64(900)).Return(apperrors.ErrStoreUnavailable)

	sideEffectRuns := 0
	_, err := suite.service.Debit(ctx, suite.actorID, 1, 700, func(ctx context.Context) error {
		sideEffectRuns++
		return nil
	})

	suite.Require().ErrorIs(err, apperrors.ErrLedgerInconsistency)
	suite.Equal(1, sideEffectRuns)
}

func (suite *WalletServiceTestSuite) TestDebit_CacheWriteFailureDoesNotFailTheDebit() {
	ctx := context.Background()

	suite.mockRepo.On("GetWalletBalance", mock.Anything, suite.actorID).Return(int64(700), nil)
	suite.mockRepo.On("CompareAndSwapWallet", mock.Anything, suite.actorID, int64(700), int64(0)).Return(nil).Once()
	suite.mockCache.On("SetScalar", mock.Anything, suite.actorID, int64(0)).Return(errors.New("cache down")).Once()

	newBalance, err := suite.service.Debit(ctx, suite.actorID, 1, 700, nil)

	suite.Require().NoError(err)
	suite.Equal(int64(0), newBalance)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
