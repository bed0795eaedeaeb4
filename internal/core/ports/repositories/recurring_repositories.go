package repositories

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecurringRuleReader defines read operations for recurring rules.
type RecurringRuleReader interface {
	// FindRuleByID retrieves a recurring rule by its identifier.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error)

	// ListRulesByUser retrieves every rule owned by the user.
	ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)

	// ListActiveRulesByUser retrieves the user's active rules only.
	ListActiveRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)

	// FindDueRules selects active rules with next_run_date <= asOf whose
	// end_date is unset or has not yet passed.
	FindDueRules(ctx context.Context, asOf time.Time) ([]domain.RecurringRule, error)
}

// RecurringRuleWriter defines write operations for recurring rules.
type RecurringRuleWriter interface {
	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.RecurringRule) error

	// UpdateRule updates the future-only fields of an existing rule.
	UpdateRule(ctx context.Context, rule domain.RecurringRule) error

	// UpdateRuleSchedule persists the scheduler's advance of next_run_date and
	// the active flag, leaving all other fields untouched.
	UpdateRuleSchedule(ctx context.Context, ruleID string, nextRunDate time.Time, active bool, now time.Time) error

	// SaveRuleRun commits one scheduler run for a rule as a single atomic
	// unit: the derived transaction row, the balance deltas, and the rule's
	// advanced schedule either all persist or none do.
	SaveRuleRun(ctx context.Context, rule domain.RecurringRule, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeactivateRule marks a rule inactive. Rules are never reactivated.
	DeactivateRule(ctx context.Context, ruleID string, now time.Time) error
}

// RecurringRuleRepositoryFacade combines recurring-rule reads and writes.
type RecurringRuleRepositoryFacade interface {
	RecurringRuleReader
	RecurringRuleWriter
}
