package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/core/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func strPtr(s string) *string { return &s }

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TransactionSvcFacade
	ctx             context.Context

	userID          string
	otherUserID     string
	checkingAccount domain.Account
	savingsAccount  domain.Account
	creditAccount   domain.Account
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewTransactionService(s.mockTxnRepo, s.mockAccountRepo)
	s.ctx = context.Background()

	s.userID = uuid.NewString()
	s.otherUserID = uuid.NewString()
	s.checkingAccount = domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
		Currency:    domain.USD,
		Balance:     decimal.NewFromInt(100),
		IsActive:    true,
	}
	s.savingsAccount = domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		Name:        "Rainy Day",
		AccountType: domain.Savings,
		Currency:    domain.USD,
		Balance:     decimal.Zero,
		IsActive:    true,
	}
	s.creditAccount = domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		Name:        "Visa",
		AccountType: domain.CreditCard,
		Currency:    domain.USD,
		Balance:     decimal.NewFromInt(10),
		IsActive:    true,
	}
}

func (s *TransactionServiceTestSuite) expectAccounts(accounts ...domain.Account) {
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).Return(byID, nil).Once()
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_IncomeIncreasesBalance() {
	s.expectAccounts(s.checkingAccount)

	var savedChanges map[string]decimal.Decimal
	s.mockTxnRepo.On("SaveTransaction", s.ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedChanges = args.Get(2).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(50),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
		Description:     "Salary",
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.NotEmpty(txn.TransactionID)
	s.Equal(s.userID, txn.UserID)
	s.Equal(domain.Income, txn.TransactionType)
	s.Require().Len(savedChanges, 1)
	s.True(savedChanges[s.checkingAccount.AccountID].Equal(decimal.NewFromInt(50)))
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_ExpenseInsufficientFunds() {
	s.checkingAccount.Balance = decimal.RequireFromString("20.00")
	s.expectAccounts(s.checkingAccount)

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(50),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
		FromAccountID:   strPtr(s.checkingAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrInsufficientFunds)
	s.Nil(txn)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_ExpenseOverdraftAllowedOnCredit() {
	s.expectAccounts(s.creditAccount)
	s.mockTxnRepo.On("SaveTransaction", s.ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).Return(nil).Once()

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
		FromAccountID:   strPtr(s.creditAccount.AccountID),
		Description:     "Flight",
	})

	s.Require().NoError(err)
	s.NotNil(txn)
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_TransferMovesBothBalances() {
	s.checkingAccount.Balance = decimal.NewFromInt(150)
	s.expectAccounts(s.checkingAccount, s.savingsAccount)

	var savedChanges map[string]decimal.Decimal
	s.mockTxnRepo.On("SaveTransaction", s.ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedChanges = args.Get(2).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(40),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		FromAccountID:   strPtr(s.checkingAccount.AccountID),
		ToAccountID:     strPtr(s.savingsAccount.AccountID),
	})

	s.Require().NoError(err)
	s.Equal(domain.Transfer, txn.TransactionType)
	s.Require().Len(savedChanges, 2)
	s.True(savedChanges[s.checkingAccount.AccountID].Equal(decimal.NewFromInt(-40)))
	s.True(savedChanges[s.savingsAccount.AccountID].Equal(decimal.NewFromInt(40)))
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_TransferFromCreditRequiresFunds() {
	// The overdraft allowance is for expenses only; a transfer source must be
	// funded even on a credit-bearing account.
	s.creditAccount.Balance = decimal.RequireFromString("10.00")
	s.expectAccounts(s.creditAccount, s.savingsAccount)

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		FromAccountID:   strPtr(s.creditAccount.AccountID),
		ToAccountID:     strPtr(s.savingsAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrInsufficientFunds)
	s.Nil(txn)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_TransferFromFundedCreditSucceeds() {
	s.creditAccount.Balance = decimal.NewFromInt(200)
	s.expectAccounts(s.creditAccount, s.savingsAccount)
	s.mockTxnRepo.On("SaveTransaction", s.ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).Return(nil).Once()

	txn, err := s.service.CreateTransaction(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		FromAccountID:   strPtr(s.creditAccount.AccountID),
		ToAccountID:     strPtr(s.savingsAccount.AccountID),
	})

	s.Require().NoError(err)
	s.NotNil(txn)
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestBuildPosting_SameAccountTransferRejected() {
	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		FromAccountID:   strPtr(s.checkingAccount.AccountID),
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrSameAccountTransfer)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_CurrencyMismatchRejected() {
	s.savingsAccount.Currency = domain.EUR
	s.expectAccounts(s.checkingAccount, s.savingsAccount)

	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		FromAccountID:   strPtr(s.checkingAccount.AccountID),
		ToAccountID:     strPtr(s.savingsAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrCurrencyMismatch)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_MissingAccountReference() {
	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
	})
	s.Require().ErrorIs(err, services.ErrMissingRequiredAccount)

	_, _, err = s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
	})
	s.Require().ErrorIs(err, services.ErrMissingRequiredAccount)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_InactiveAccountRejected() {
	s.checkingAccount.IsActive = false
	s.expectAccounts(s.checkingAccount)

	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrAccountInactive)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_OtherUsersAccountReportsNotFound() {
	s.checkingAccount.UserID = s.otherUserID
	s.expectAccounts(s.checkingAccount)

	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})

	s.Require().ErrorIs(err, services.ErrAccountNotFound)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_AmountBelowMinimumRejected() {
	_, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.RequireFromString("0.001"),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})
	s.Require().ErrorIs(err, services.ErrInvalidAmount)

	_, _, err = s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(-5),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})
	s.Require().ErrorIs(err, services.ErrInvalidAmount)
}

func (s *TransactionServiceTestSuite) TestBuildPosting_DefaultsTransactionDate() {
	s.expectAccounts(s.checkingAccount)

	before := time.Now()
	txn, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
	})

	s.Require().NoError(err)
	s.False(txn.TransactionDate.Before(before))
	s.False(txn.TransactionDate.After(time.Now()))
}

func (s *TransactionServiceTestSuite) TestBuildPosting_HonorsExplicitTransactionDate() {
	s.expectAccounts(s.checkingAccount)

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txn, _, err := s.service.BuildPosting(s.ctx, s.userID, dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     strPtr(s.checkingAccount.AccountID),
		TransactionDate: &want,
	})

	s.Require().NoError(err)
	s.True(txn.TransactionDate.Equal(want))
}

func (s *TransactionServiceTestSuite) TestGetTransactionByID_OwnershipEnforced() {
	txnID := uuid.NewString()
	stored := &domain.Transaction{
		TransactionID:   txnID,
		UserID:          s.otherUserID,
		Amount:          decimal.NewFromInt(10),
		Currency:        domain.USD,
		TransactionType: domain.Income,
	}
	s.mockTxnRepo.On("FindTransactionByID", s.ctx, txnID).Return(stored, nil).Once()

	txn, err := s.service.GetTransactionByID(s.ctx, s.userID, txnID)

	s.Require().Error(err)
	s.Nil(txn)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
