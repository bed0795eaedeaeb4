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

type MockPostingBuilder struct {
	mock.Mock
}

var _ portssvc.PostingBuilder = (*MockPostingBuilder)(nil)

func (m *MockPostingBuilder) BuildPosting(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, req)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	var changes map[string]decimal.Decimal
	if args.Get(1) != nil {
		changes = args.Get(1).(map[string]decimal.Decimal)
	}
	return txn, changes, args.Error(2)
}

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringRuleRepository
	mockAccountRepo   *MockAccountRepository
	mockPosting       *MockPostingBuilder
	service           portssvc.RecurringSvcFacade
	ctx               context.Context

	userID  string
	account domain.Account
	rule    domain.RecurringRule
}

func (s *RecurringServiceTestSuite) SetupTest() {
	s.mockRecurringRepo = new(MockRecurringRuleRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockPosting = new(MockPostingBuilder)
	s.service = services.NewRecurringService(s.mockRecurringRepo, s.mockAccountRepo, s.mockPosting)
	s.ctx = context.Background()

	s.userID = uuid.NewString()
	s.account = domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      s.userID,
		Name:        "Everyday Checking",
		AccountType: domain.Checking,
		Currency:    domain.USD,
		Balance:     decimal.NewFromInt(1000),
		IsActive:    true,
	}
	s.rule = domain.RecurringRule{
		RuleID:          uuid.NewString(),
		UserID:          s.userID,
		AccountID:       s.account.AccountID,
		Amount:          decimal.NewFromInt(1200),
		Currency:        domain.USD,
		TransactionType: domain.Income,
		Frequency:       domain.Monthly,
		Description:     "Paycheck",
		StartDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		NextRunDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func (s *RecurringServiceTestSuite) TestCreateRule_TransferRejected() {
	rule, err := s.service.CreateRule(s.ctx, s.userID, dto.CreateRecurringRuleRequest{
		AccountID:       s.account.AccountID,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Transfer,
		Frequency:       domain.Monthly,
		Description:     "Sweep",
		StartDate:       "2030-01-01",
	})

	s.Require().ErrorIs(err, services.ErrRuleTransferNotAllowed)
	s.Nil(rule)
	s.mockRecurringRepo.AssertNotCalled(s.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestCreateRule_EndBeforeStartRejected() {
	end := "2029-12-01"
	rule, err := s.service.CreateRule(s.ctx, s.userID, dto.CreateRecurringRuleRequest{
		AccountID:       s.account.AccountID,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
		Frequency:       domain.Monthly,
		Description:     "Rent",
		StartDate:       "2030-01-01",
		EndDate:         &end,
	})

	s.Require().ErrorIs(err, services.ErrRuleEndBeforeStart)
	s.Nil(rule)
}

func (s *RecurringServiceTestSuite) TestCreateRule_FirstRunIsStartDate() {
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockRecurringRepo.On("SaveRule", s.ctx, mock.AnythingOfType("domain.RecurringRule")).Return(nil).Once()

	rule, err := s.service.CreateRule(s.ctx, s.userID, dto.CreateRecurringRuleRequest{
		AccountID:       s.account.AccountID,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
		Frequency:       domain.Monthly,
		Description:     "Rent",
		StartDate:       "2030-01-01",
	})

	s.Require().NoError(err)
	s.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), rule.NextRunDate)
	s.True(rule.NextRunDate.Equal(rule.StartDate))
	s.True(rule.IsActive)
}

func (s *RecurringServiceTestSuite) TestCreateRule_PastStartDateClampedToToday() {
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockRecurringRepo.On("SaveRule", s.ctx, mock.AnythingOfType("domain.RecurringRule")).Return(nil).Once()

	rule, err := s.service.CreateRule(s.ctx, s.userID, dto.CreateRecurringRuleRequest{
		AccountID:       s.account.AccountID,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.USD,
		TransactionType: domain.Expense,
		Frequency:       domain.Monthly,
		Description:     "Rent",
		StartDate:       "2001-01-01",
	})

	s.Require().NoError(err)
	s.False(rule.StartDate.Before(time.Now().UTC().Truncate(24 * time.Hour)))
}

func (s *RecurringServiceTestSuite) TestProcessDue_PostsAndAdvancesMonthlyRule() {
	asOf := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          s.userID,
		Amount:          s.rule.Amount,
		Currency:        domain.USD,
		TransactionType: domain.Income,
		ToAccountID:     &s.rule.AccountID,
	}
	changes := map[string]decimal.Decimal{s.rule.AccountID: s.rule.Amount}

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()

	var builtReq dto.CreateTransactionRequest
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Run(func(args mock.Arguments) {
			builtReq = args.Get(2).(dto.CreateTransactionRequest)
		}).
		Return(txn, changes, nil).Once()

	var savedRule domain.RecurringRule
	s.mockRecurringRepo.On("SaveRuleRun", mock.Anything, mock.AnythingOfType("domain.RecurringRule"), *txn, changes).
		Run(func(args mock.Arguments) {
			savedRule = args.Get(1).(domain.RecurringRule)
		}).
		Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.Equal(s.rule.RuleID, results[0].RuleID)
	s.Equal(txn.TransactionID, results[0].TransactionID)

	s.Equal("Paycheck (Recurring)", builtReq.Description)
	s.Equal(domain.Income, builtReq.TransactionType)
	s.Require().NotNil(builtReq.ToAccountID)
	s.Equal(s.rule.AccountID, *builtReq.ToAccountID)
	// The posting records the processing time, so the draft leaves the date
	// unset for the posting path to default.
	s.Nil(builtReq.TransactionDate)

	s.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), savedRule.NextRunDate)
	s.True(savedRule.IsActive)
}

func (s *RecurringServiceTestSuite) TestProcessDue_ExpenseRuleDebitsAccount() {
	s.rule.TransactionType = domain.Expense
	s.rule.Description = "Rent"
	asOf := s.rule.NextRunDate

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()

	var builtReq dto.CreateTransactionRequest
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: s.userID}
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Run(func(args mock.Arguments) {
			builtReq = args.Get(2).(dto.CreateTransactionRequest)
		}).
		Return(txn, map[string]decimal.Decimal{}, nil).Once()
	s.mockRecurringRepo.On("SaveRuleRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Require().NotNil(builtReq.FromAccountID)
	s.Equal(s.rule.AccountID, *builtReq.FromAccountID)
	s.Nil(builtReq.ToAccountID)
}

func (s *RecurringServiceTestSuite) TestProcessDue_FailedPostingStillAdvancesRule() {
	asOf := s.rule.NextRunDate

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Return(nil, nil, services.ErrInsufficientFunds).Once()
	s.mockRecurringRepo.On("UpdateRuleSchedule", mock.Anything, s.rule.RuleID,
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), true, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Require().ErrorIs(results[0].Err, services.ErrInsufficientFunds)
	s.Empty(results[0].TransactionID)
	s.mockRecurringRepo.AssertExpectations(s.T())
	s.mockRecurringRepo.AssertNotCalled(s.T(), "SaveRuleRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestProcessDue_ExpiredRuleDeactivatesWithoutPosting() {
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	s.rule.EndDate = &end // NextRunDate 2024-01-15 is already past the end
	asOf := s.rule.NextRunDate

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()
	s.mockRecurringRepo.On("UpdateRuleSchedule", mock.Anything, s.rule.RuleID,
		s.rule.NextRunDate, false, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.Empty(results[0].TransactionID)
	s.mockPosting.AssertNotCalled(s.T(), "BuildPosting", mock.Anything, mock.Anything, mock.Anything)
	s.mockRecurringRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestProcessDue_EndDatePassedExpiresWithoutPosting() {
	// Scheduler offline across the end date: the rule was due before the end
	// date but the pass runs after it. Nothing may post.
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.rule.NextRunDate = time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)
	s.rule.EndDate = &end
	asOf := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()
	s.mockRecurringRepo.On("UpdateRuleSchedule", mock.Anything, s.rule.RuleID,
		s.rule.NextRunDate, false, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.Empty(results[0].TransactionID)
	s.mockPosting.AssertNotCalled(s.T(), "BuildPosting", mock.Anything, mock.Anything, mock.Anything)
	s.mockRecurringRepo.AssertNotCalled(s.T(), "SaveRuleRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockRecurringRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestProcessDue_RuleDueOnEndDateStillPosts() {
	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s.rule.EndDate = &end // due date falls on the end date itself
	asOf := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: s.userID}
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.Anything).
		Return(txn, map[string]decimal.Decimal{}, nil).Once()
	s.mockRecurringRepo.On("SaveRuleRun", mock.Anything, mock.AnythingOfType("domain.RecurringRule"), mock.Anything, mock.Anything).Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.Equal(txn.TransactionID, results[0].TransactionID)
}

func (s *RecurringServiceTestSuite) TestProcessDue_LastRunBeforeEndDateDeactivates() {
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s.rule.EndDate = &end // advancing 2024-01-15 monthly lands past the end
	asOf := s.rule.NextRunDate

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule}, nil).Once()
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: s.userID}
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.Anything).
		Return(txn, map[string]decimal.Decimal{}, nil).Once()

	var savedRule domain.RecurringRule
	s.mockRecurringRepo.On("SaveRuleRun", mock.Anything, mock.AnythingOfType("domain.RecurringRule"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedRule = args.Get(1).(domain.RecurringRule)
		}).
		Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.False(savedRule.IsActive)
	s.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), savedRule.NextRunDate)
}

func (s *RecurringServiceTestSuite) TestProcessDue_OneFailureDoesNotAbortBatch() {
	other := s.rule
	other.RuleID = uuid.NewString()
	other.AccountID = uuid.NewString()
	asOf := s.rule.NextRunDate

	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{s.rule, other}, nil).Once()

	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: s.userID}
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return req.ToAccountID != nil && *req.ToAccountID == s.rule.AccountID
	})).Return(txn, map[string]decimal.Decimal{}, nil).Once()
	s.mockPosting.On("BuildPosting", mock.Anything, s.userID, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return req.ToAccountID != nil && *req.ToAccountID == other.AccountID
	})).Return(nil, nil, services.ErrAccountInactive).Once()

	s.mockRecurringRepo.On("SaveRuleRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRecurringRepo.On("UpdateRuleSchedule", mock.Anything, other.RuleID, mock.Anything, true, mock.Anything).Return(nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Require().Len(results, 2)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.Equal(other.RuleID, r.RuleID)
		}
	}
	s.Equal(1, failed)
}

func (s *RecurringServiceTestSuite) TestProcessDue_NothingDue() {
	asOf := time.Now()
	s.mockRecurringRepo.On("FindDueRules", s.ctx, asOf).Return([]domain.RecurringRule{}, nil).Once()

	results, err := s.service.ProcessDue(s.ctx, asOf)

	s.Require().NoError(err)
	s.Empty(results)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
