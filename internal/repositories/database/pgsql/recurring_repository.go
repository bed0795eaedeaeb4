package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
	"github.com/epsilon-fin/epsilon_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ruleColumns = `rule_id, user_id, account_id, amount, currency_code, transaction_type, frequency, description, start_date, end_date, next_run_date, category_id, is_active, created_at, updated_at`

type PgxRecurringRuleRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountPostingSupport
}

func newPgxRecurringRuleRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountPostingSupport) portsrepo.RecurringRuleRepositoryFacade {
	return &PgxRecurringRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.RecurringRuleRepositoryFacade = (*PgxRecurringRuleRepository)(nil)

func scanRule(row pgx.Row) (models.RecurringRule, error) {
	var m models.RecurringRule
	err := row.Scan(
		&m.RuleID,
		&m.UserID,
		&m.AccountID,
		&m.Amount,
		&m.CurrencyCode,
		&m.TransactionType,
		&m.Frequency,
		&m.Description,
		&m.StartDate,
		&m.EndDate,
		&m.NextRunDate,
		&m.CategoryID,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func scanRuleRows(rows pgx.Rows) ([]domain.RecurringRule, error) {
	defer rows.Close()
	var rules []models.RecurringRule
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring rule row: %w", err)
		}
		rules = append(rules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring rule rows: %w", err)
	}
	return mapping.ToDomainRecurringRuleSlice(rules), nil
}

// SaveRule inserts a new recurring rule.
func (r *PgxRecurringRuleRepository) SaveRule(ctx context.Context, rule domain.RecurringRule) error {
	m := mapping.ToModelRecurringRule(rule)
	query := `
		INSERT INTO recurring_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID,
		m.UserID,
		m.AccountID,
		m.Amount,
		m.CurrencyCode,
		m.TransactionType,
		m.Frequency,
		m.Description,
		m.StartDate,
		m.EndDate,
		m.NextRunDate,
		m.CategoryID,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring rule %s: %w", m.RuleID, err)
	}
	return nil
}

// FindRuleByID retrieves a recurring rule by its identifier.
func (r *PgxRecurringRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE rule_id = $1;`
	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurring rule by ID %s: %w", ruleID, err)
	}
	d := mapping.ToDomainRecurringRule(m)
	return &d, nil
}

// ListRulesByUser retrieves every rule owned by the user.
func (r *PgxRecurringRuleRepository) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE user_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring rules for user %s: %w", userID, err)
	}
	return scanRuleRows(rows)
}

// ListActiveRulesByUser retrieves the user's active rules.
func (r *PgxRecurringRuleRepository) ListActiveRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recurring rules for user %s: %w", userID, err)
	}
	return scanRuleRows(rows)
}

// FindDueRules selects active rules with next_run_date on or before asOf
// whose end date is unset or has not yet passed. End dates are calendar
// dates, so the cutoff compares against the day of asOf.
func (r *PgxRecurringRuleRepository) FindDueRules(ctx context.Context, asOf time.Time) ([]domain.RecurringRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM recurring_rules
		WHERE is_active = TRUE AND next_run_date <= $1
		  AND (end_date IS NULL OR end_date >= $1::date)
		ORDER BY account_id, next_run_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find due recurring rules: %w", err)
	}
	return scanRuleRows(rows)
}

// UpdateRule updates the future-facing fields of an existing rule.
func (r *PgxRecurringRuleRepository) UpdateRule(ctx context.Context, rule domain.RecurringRule) error {
	m := mapping.ToModelRecurringRule(rule)
	query := `
		UPDATE recurring_rules
		SET description = $2, amount = $3, frequency = $4, end_date = $5, category_id = $6, updated_at = $7
		WHERE rule_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, m.RuleID, m.Description, m.Amount, m.Frequency, m.EndDate, m.CategoryID, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update recurring rule %s: %w", m.RuleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func updateRuleScheduleTx(ctx context.Context, tx pgx.Tx, ruleID string, nextRunDate time.Time, active bool, now time.Time) error {
	query := `
		UPDATE recurring_rules
		SET next_run_date = $2, is_active = $3, updated_at = $4
		WHERE rule_id = $1;
	`
	ct, err := tx.Exec(ctx, query, ruleID, nextRunDate, active, now)
	if err != nil {
		return fmt.Errorf("failed to update schedule for rule %s: %w", ruleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRuleSchedule persists a schedule advance outside any posting.
func (r *PgxRecurringRuleRepository) UpdateRuleSchedule(ctx context.Context, ruleID string, nextRunDate time.Time, active bool, now time.Time) error {
	query := `
		UPDATE recurring_rules
		SET next_run_date = $2, is_active = $3, updated_at = $4
		WHERE rule_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, ruleID, nextRunDate, active, now)
	if err != nil {
		return fmt.Errorf("failed to update schedule for rule %s: %w", ruleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveRuleRun commits one scheduler run atomically: the derived transaction,
// its balance deltas and the rule's advanced schedule all land in the same
// database transaction.
func (r *PgxRecurringRuleRepository) SaveRuleRun(ctx context.Context, rule domain.RecurringRule, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := applyPostingInTx(ctx, tx, r.accountRepo, txn, balanceChanges); err != nil {
		return err
	}
	if err := updateRuleScheduleTx(ctx, tx, rule.RuleID, rule.NextRunDate, rule.IsActive, txn.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeactivateRule marks a rule inactive.
func (r *PgxRecurringRuleRepository) DeactivateRule(ctx context.Context, ruleID string, now time.Time) error {
	query := `UPDATE recurring_rules SET is_active = FALSE, updated_at = $2 WHERE rule_id = $1;`
	ct, err := r.Pool.Exec(ctx, query, ruleID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate recurring rule %s: %w", ruleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
