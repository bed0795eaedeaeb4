package services

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
)

// RecurringSvcFacade exposes recurring-rule lifecycle operations and the
// scheduler entry point.
type RecurringSvcFacade interface {
	CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error)
	GetRuleByID(ctx context.Context, userID string, ruleID string) (*domain.RecurringRule, error)
	ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)
	ListActiveRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)
	UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRecurringRuleRequest) (*domain.RecurringRule, error)
	DeactivateRule(ctx context.Context, userID string, ruleID string) error

	// ProcessDue posts a transaction for every rule due as of the given date,
	// advances each rule's schedule, and returns a per-rule result list. A
	// failing rule never aborts the batch.
	ProcessDue(ctx context.Context, asOf time.Time) ([]domain.RuleRunResult, error)
}
