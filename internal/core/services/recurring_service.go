package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Recurring rule errors.
var (
	ErrRuleTransferNotAllowed = fmt.Errorf("transfer rules cannot be scheduled: %w", apperrors.ErrValidation)
	ErrRuleEndBeforeStart     = fmt.Errorf("end date precedes start date: %w", apperrors.ErrValidation)
	ErrRuleInvalidFrequency   = fmt.Errorf("unsupported recurrence frequency: %w", apperrors.ErrValidation)
)

// recurringSuffix marks transactions emitted by the scheduler.
const recurringSuffix = " (Recurring)"

// processDueConcurrency bounds the number of rule groups posted in parallel.
const processDueConcurrency = 8

type recurringService struct {
	recurringRepo portsrepo.RecurringRuleRepositoryFacade
	accountRepo   portsrepo.AccountReader
	posting       portssvc.PostingBuilder
}

// NewRecurringService creates the recurring-rule service. The posting builder
// is the ledger engine's validation front door; the scheduler composes its own
// atomic unit around the posting it returns.
func NewRecurringService(recurringRepo portsrepo.RecurringRuleRepositoryFacade, accountRepo portsrepo.AccountReader, posting portssvc.PostingBuilder) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		accountRepo:   accountRepo,
		posting:       posting,
	}
}

func (s *recurringService) CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TransactionType == domain.Transfer {
		return nil, ErrRuleTransferNotAllowed
	}
	if !req.Frequency.IsValid() {
		return nil, ErrRuleInvalidFrequency
	}
	if req.Amount.LessThan(minPostingAmount) {
		return nil, ErrInvalidAmount
	}

	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return nil, apperrors.NewAppError(400, "invalid start date", apperrors.ErrValidation)
	}
	// A start date in the past would make the first run immediately overdue;
	// clamp it to today so the first posting lands on the current cycle.
	today := truncateToDay(time.Now().UTC())
	if startDate.Before(today) {
		startDate = today
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse(time.DateOnly, *req.EndDate)
		if err != nil {
			return nil, apperrors.NewAppError(400, "invalid end date", apperrors.ErrValidation)
		}
		if parsed.Before(startDate) {
			return nil, ErrRuleEndBeforeStart
		}
		endDate = &parsed
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", req.AccountID))
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	if account.Currency != req.Currency {
		return nil, ErrCurrencyMismatch
	}

	now := time.Now()
	rule := domain.RecurringRule{
		RuleID:          uuid.NewString(),
		UserID:          userID,
		AccountID:       req.AccountID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TransactionType: req.TransactionType,
		Frequency:       req.Frequency,
		Description:     req.Description,
		StartDate:       startDate,
		EndDate:         endDate,
		NextRunDate:     startDate,
		CategoryID:      req.CategoryID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.recurringRepo.SaveRule(ctx, rule); err != nil {
		logger.Error("Failed to save recurring rule", slog.String("error", err.Error()), slog.String("rule_id", rule.RuleID))
		return nil, err
	}

	logger.Info("Recurring rule created", slog.String("rule_id", rule.RuleID), slog.String("frequency", string(rule.Frequency)))
	return &rule, nil
}

func (s *recurringService) GetRuleByID(ctx context.Context, userID string, ruleID string) (*domain.RecurringRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	rule, err := s.recurringRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find recurring rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		}
		return nil, err
	}
	if rule.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("recurring rule %s not found", ruleID))
	}
	return rule, nil
}

func (s *recurringService) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	rules, err := s.recurringRepo.ListRulesByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list recurring rules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list recurring rules: %w", err)
	}
	if rules == nil {
		return []domain.RecurringRule{}, nil
	}
	return rules, nil
}

func (s *recurringService) ListActiveRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	rules, err := s.recurringRepo.ListActiveRulesByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list active recurring rules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active recurring rules: %w", err)
	}
	if rules == nil {
		return []domain.RecurringRule{}, nil
	}
	return rules, nil
}

// UpdateRule edits the future-facing fields of a rule. Transactions already
// emitted by past runs are never rewritten.
func (s *recurringService) UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRecurringRuleRequest) (*domain.RecurringRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := s.GetRuleByID(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThan(minPostingAmount) {
			return nil, ErrInvalidAmount
		}
		rule.Amount = *req.Amount
	}
	if req.Frequency != nil {
		if !req.Frequency.IsValid() {
			return nil, ErrRuleInvalidFrequency
		}
		rule.Frequency = *req.Frequency
	}
	if req.EndDate != nil {
		parsed, err := time.Parse(time.DateOnly, *req.EndDate)
		if err != nil {
			return nil, apperrors.NewAppError(400, "invalid end date", apperrors.ErrValidation)
		}
		if parsed.Before(rule.StartDate) {
			return nil, ErrRuleEndBeforeStart
		}
		rule.EndDate = &parsed
	}
	if req.CategoryID != nil {
		rule.CategoryID = req.CategoryID
	}
	rule.UpdatedAt = time.Now()

	if err := s.recurringRepo.UpdateRule(ctx, *rule); err != nil {
		logger.Error("Failed to update recurring rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		return nil, err
	}
	return rule, nil
}

func (s *recurringService) DeactivateRule(ctx context.Context, userID string, ruleID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetRuleByID(ctx, userID, ruleID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeactivateRule(ctx, ruleID, time.Now()); err != nil {
		logger.Error("Failed to deactivate recurring rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		return err
	}
	logger.Info("Recurring rule deactivated", slog.String("rule_id", ruleID))
	return nil
}

// ProcessDue runs one scheduler pass: every active rule due as of the given
// date posts its transaction and advances its schedule. Rules touching the
// same account run sequentially; distinct accounts fan out with a bounded
// level of parallelism. A failing rule is recorded in the result set and
// still advanced so the scheduler never retries it forever.
func (s *recurringService) ProcessDue(ctx context.Context, asOf time.Time) ([]domain.RuleRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due, err := s.recurringRepo.FindDueRules(ctx, asOf)
	if err != nil {
		logger.Error("Failed to find due rules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find due rules: %w", err)
	}
	if len(due) == 0 {
		logger.Debug("No recurring rules due")
		return []domain.RuleRunResult{}, nil
	}

	groups := make(map[string][]domain.RecurringRule)
	for _, rule := range due {
		groups[rule.AccountID] = append(groups[rule.AccountID], rule)
	}

	var (
		mu      sync.Mutex
		results []domain.RuleRunResult
	)
	asOfDay := truncateToDay(asOf)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(processDueConcurrency)
	for _, rules := range groups {
		rules := rules
		g.Go(func() error {
			for _, rule := range rules {
				res := s.processRule(gctx, rule, asOfDay)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("Recurring run complete",
		slog.Int("due", len(due)),
		slog.Int("posted", len(results)-failed),
		slog.Int("failed", failed))
	return results, nil
}

// processRule handles a single due rule: expiry, posting, and the schedule
// advance. The advance happens even when posting fails.
func (s *recurringService) processRule(ctx context.Context, rule domain.RecurringRule, asOfDay time.Time) domain.RuleRunResult {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("rule_id", rule.RuleID))
	now := time.Now()

	// A rule whose end date has passed expires without posting. The due-rule
	// query already excludes these; this guards against stale reads and
	// inconsistent stored state.
	if rule.EndDate != nil && (rule.NextRunDate.After(*rule.EndDate) || rule.EndDate.Before(asOfDay)) {
		if err := s.recurringRepo.UpdateRuleSchedule(ctx, rule.RuleID, rule.NextRunDate, false, now); err != nil {
			logger.Error("Failed to expire recurring rule", slog.String("error", err.Error()))
			return domain.RuleRunResult{RuleID: rule.RuleID, Err: err}
		}
		logger.Info("Recurring rule expired")
		return domain.RuleRunResult{RuleID: rule.RuleID}
	}

	req, err := buildRuleDraft(rule)
	if err != nil {
		logger.Error("Skipping unpostable recurring rule", slog.String("error", err.Error()))
		s.advanceRule(ctx, logger, rule, now)
		return domain.RuleRunResult{RuleID: rule.RuleID, Err: err}
	}

	txn, balanceChanges, err := s.posting.BuildPosting(ctx, rule.UserID, req)
	if err != nil {
		logger.Warn("Recurring posting rejected", slog.String("error", err.Error()))
		s.advanceRule(ctx, logger, rule, now)
		return domain.RuleRunResult{RuleID: rule.RuleID, Err: err}
	}

	advanced := advanceSchedule(rule)
	if err := s.recurringRepo.SaveRuleRun(ctx, advanced, *txn, balanceChanges); err != nil {
		logger.Error("Failed to commit recurring run", slog.String("error", err.Error()))
		s.advanceRule(ctx, logger, rule, now)
		return domain.RuleRunResult{RuleID: rule.RuleID, Err: err}
	}

	logger.Info("Recurring transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("next_run_date", advanced.NextRunDate.Format(time.DateOnly)))
	return domain.RuleRunResult{RuleID: rule.RuleID, TransactionID: txn.TransactionID}
}

// advanceRule persists the schedule advance on its own when the posting did
// not commit. Without this a broken rule would be retried every pass.
func (s *recurringService) advanceRule(ctx context.Context, logger *slog.Logger, rule domain.RecurringRule, now time.Time) {
	advanced := advanceSchedule(rule)
	if err := s.recurringRepo.UpdateRuleSchedule(ctx, rule.RuleID, advanced.NextRunDate, advanced.IsActive, now); err != nil {
		logger.Error("Failed to advance recurring rule schedule", slog.String("error", err.Error()))
	}
}

// advanceSchedule computes the rule's state after one run: the next run date
// per its frequency, deactivated when that date falls past the end date.
func advanceSchedule(rule domain.RecurringRule) domain.RecurringRule {
	rule.NextRunDate = rule.Frequency.Next(rule.NextRunDate)
	if rule.EndDate != nil && rule.NextRunDate.After(*rule.EndDate) {
		rule.IsActive = false
	}
	return rule
}

// buildRuleDraft derives the posting draft a due rule emits. The transaction
// date is left unset so the posting records the processing time, not the due
// date that triggered it.
func buildRuleDraft(rule domain.RecurringRule) (dto.CreateTransactionRequest, error) {
	req := dto.CreateTransactionRequest{
		Amount:          rule.Amount,
		Currency:        rule.Currency,
		TransactionType: rule.TransactionType,
		CategoryID:      rule.CategoryID,
		Description:     rule.Description + recurringSuffix,
	}
	accountID := rule.AccountID
	switch rule.TransactionType {
	case domain.Income:
		req.ToAccountID = &accountID
	case domain.Expense:
		req.FromAccountID = &accountID
	default:
		return dto.CreateTransactionRequest{}, ErrRuleTransferNotAllowed
	}
	return req, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
