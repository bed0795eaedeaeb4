package services_test

import (
	"context"
	"math/rand"
	"regexp"
	"testing"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/core/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var accountNumberPattern = regexp.MustCompile(`^\d{8}$`)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context

	userID string
	owner  domain.User
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewAccountService(s.mockAccountRepo, s.mockUserRepo,
		services.WithAccountNumberRand(rand.New(rand.NewSource(1))))
	s.ctx = context.Background()

	s.userID = uuid.NewString()
	s.owner = domain.User{
		UserID:          s.userID,
		Email:           "owner@example.com",
		DefaultCurrency: domain.EUR,
		IsActive:        true,
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_GeneratesEightDigitNumber() {
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

	var saved domain.Account
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
		Currency:    domain.USD,
	})

	s.Require().NoError(err)
	s.Regexp(accountNumberPattern, account.AccountNumber)
	s.Equal(account.AccountNumber, saved.AccountNumber)
	s.True(account.Balance.IsZero())
	s.True(account.IsActive)
	s.Equal(s.userID, account.UserID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_RetriesOnNumberCollision() {
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
		Currency:    domain.USD,
	})

	s.Require().NoError(err)
	s.Regexp(accountNumberPattern, account.AccountNumber)
	s.mockAccountRepo.AssertNumberOfCalls(s.T(), "ExistsByAccountNumber", 3)
}

func (s *AccountServiceTestSuite) TestCreateAccount_GenerationGivesUpAfterRetries() {
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, mock.AnythingOfType("string")).Return(true, nil).Times(10)

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
		Currency:    domain.USD,
	})

	s.Require().ErrorIs(err, services.ErrAccountNumberGeneration)
	s.Nil(account)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ExplicitNumberAlreadyTaken() {
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, "12345678").Return(true, nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:          "Everyday Checking",
		AccountType:   domain.Checking,
		Currency:      domain.USD,
		AccountNumber: "12345678",
	})

	s.Require().ErrorIs(err, services.ErrAccountNumberTaken)
	s.Nil(account)
}

func (s *AccountServiceTestSuite) TestCreateAccount_CurrencyDefaultsToOwner() {
	s.mockUserRepo.On("FindUserByID", s.ctx, s.userID).Return(&s.owner, nil).Once()
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
	})

	s.Require().NoError(err)
	s.Equal(domain.EUR, account.Currency)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_NegativeInitialBalanceRejected() {
	negative := decimal.NewFromInt(-50)
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, "87654321").Return(false, nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:           "Everyday Checking",
		AccountType:    domain.Checking,
		Currency:       domain.USD,
		AccountNumber:  "87654321",
		InitialBalance: &negative,
	})

	s.Require().ErrorIs(err, services.ErrNegativeBalance)
	s.Nil(account)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_NegativeInitialBalanceAllowedOnCredit() {
	negative := decimal.NewFromInt(-250)
	s.mockAccountRepo.On("ExistsByAccountNumber", s.ctx, "87654321").Return(false, nil).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.userID, dto.CreateAccountRequest{
		Name:           "Visa",
		AccountType:    domain.CreditCard,
		Currency:       domain.USD,
		AccountNumber:  "87654321",
		InitialBalance: &negative,
	})

	s.Require().NoError(err)
	s.True(account.Balance.Equal(negative))
}

func (s *AccountServiceTestSuite) TestUpdateBalance_NegativeRejectedForChecking() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		AccountType: domain.Checking,
		Currency:    domain.USD,
		Balance:     decimal.NewFromInt(100),
		IsActive:    true,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Once()

	updated, err := s.service.UpdateBalance(s.ctx, s.userID, account.AccountID, decimal.NewFromInt(-10))

	s.Require().ErrorIs(err, services.ErrNegativeBalance)
	s.Nil(updated)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestUpdateBalance_NegativeAllowedForCredit() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		AccountType: domain.CreditCard,
		Currency:    domain.USD,
		Balance:     decimal.Zero,
		IsActive:    true,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Once()
	s.mockAccountRepo.On("UpdateBalance", s.ctx, account.AccountID, decimal.NewFromInt(-10), mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := s.service.UpdateBalance(s.ctx, s.userID, account.AccountID, decimal.NewFromInt(-10))

	s.Require().NoError(err)
	s.True(updated.Balance.Equal(decimal.NewFromInt(-10)))
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_NonZeroBalanceRejected() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		AccountType: domain.Checking,
		Currency:    domain.USD,
		Balance:     decimal.RequireFromString("0.01"),
		IsActive:    true,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Once()

	err := s.service.DeactivateAccount(s.ctx, s.userID, account.AccountID)

	s.Require().ErrorIs(err, services.ErrAccountBalanceNonZero)
	s.mockAccountRepo.AssertNotCalled(s.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_ZeroBalanceSucceeds() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		AccountType: domain.Checking,
		Currency:    domain.USD,
		Balance:     decimal.Zero,
		IsActive:    true,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Once()
	s.mockAccountRepo.On("DeactivateAccount", s.ctx, account.AccountID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.DeactivateAccount(s.ctx, s.userID, account.AccountID)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestGetAccountByID_OtherUsersAccountReportsNotFound() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      uuid.NewString(),
		AccountType: domain.Checking,
		Currency:    domain.USD,
		IsActive:    true,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Once()

	got, err := s.service.GetAccountByID(s.ctx, s.userID, account.AccountID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(got)
}

func (s *AccountServiceTestSuite) TestVerifyAccountOwnership() {
	account := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    s.userID,
	}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(account, nil).Twice()

	owned, err := s.service.VerifyAccountOwnership(s.ctx, account.AccountID, s.userID)
	s.Require().NoError(err)
	s.True(owned)

	owned, err = s.service.VerifyAccountOwnership(s.ctx, account.AccountID, uuid.NewString())
	s.Require().NoError(err)
	s.False(owned)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
