package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

type RuleRepository struct {
	DB mysql.DBInterface
}

func NewRuleRepository(db mysql.DBInterface) *RuleRepository {
	return &RuleRepository{
		DB: db,
	}
}

// ListActiveRules returns active rules valid on the given date, ordered by
// priority descending so commission first-match can iterate in order.
func (r *RuleRepository) ListActiveRules(ctx context.Context, now time.Time) ([]entity.EarningRule, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rules []entity.EarningRule

	query := `
		SELECT
			id, name, rule_type, rule_value, conditions, priority,
			is_active, valid_from, valid_to, created_at, updated_at
		FROM earning_rules
		WHERE is_active = 1
		AND (valid_from IS NULL OR valid_from <= ?)
		AND (valid_to IS NULL OR valid_to >= ?)
		ORDER BY priority DESC, created_at ASC
	`

	today := now.UTC().Truncate(24 * time.Hour)
	err = db.SelectContext(ctx, &rules, query, today, today)
	if err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *RuleRepository) ListActivePrograms(ctx context.Context, now time.Time) ([]entity.BonusProgram, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var programs []entity.BonusProgram

	query := `
		SELECT
			id, name, program_type, period, target_value, bonus_amount,
			is_active, valid_from, valid_to, created_at, updated_at
		FROM bonus_programs
		WHERE is_active = 1
		AND (valid_from IS NULL OR valid_from <= ?)
		AND (valid_to IS NULL OR valid_to >= ?)
		ORDER BY created_at ASC
	`

	today := now.UTC().Truncate(24 * time.Hour)
	err = db.SelectContext(ctx, &programs, query, today, today)
	if err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *RuleRepository) FindRule(ctx context.Context, id string) (*entity.EarningRule, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rule entity.EarningRule

	query := `
		SELECT
			id, name, rule_type, rule_value, conditions, priority,
			is_active, valid_from, valid_to, created_at, updated_at
		FROM earning_rules
		WHERE id = ?
	`

	err = db.GetContext(ctx, &rule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rule, nil
}

func (r *RuleRepository) InsertRule(ctx context.Context, rule *entity.EarningRule) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO earning_rules (
			id, name, rule_type, rule_value, conditions, priority,
			is_active, valid_from, valid_to, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.Type, rule.Value, rule.Conditions, rule.Priority,
		rule.IsActive, rule.ValidFrom, rule.ValidTo, rule.CreatedAt, rule.UpdatedAt,
	)
	return err
}

func (r *RuleRepository) UpdateRule(ctx context.Context, rule *entity.EarningRule) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE earning_rules
		SET name = ?, rule_value = ?, conditions = ?, priority = ?,
			valid_from = ?, valid_to = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = db.ExecContext(ctx, query,
		rule.Name, rule.Value, rule.Conditions, rule.Priority,
		rule.ValidFrom, rule.ValidTo, time.Now().UTC(), rule.ID,
	)
	return err
}

// DeactivateRule soft-disables a rule. Rules are never deleted: posted
// ledger rows and receipts reference them for audit.
func (r *RuleRepository) DeactivateRule(ctx context.Context, id string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE earning_rules SET is_active = 0, updated_at = ? WHERE id = ?`

	_, err = db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

func (r *RuleRepository) FindProgram(ctx context.Context, id string) (*entity.BonusProgram, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var program entity.BonusProgram

	query := `
		SELECT
			id, name, program_type, period, target_value, bonus_amount,
			is_active, valid_from, valid_to, created_at, updated_at
		FROM bonus_programs
		WHERE id = ?
	`

	err = db.GetContext(ctx, &program, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &program, nil
}

func (r *RuleRepository) InsertProgram(ctx context.Context, program *entity.BonusProgram) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bonus_programs (
			id, name, program_type, period, target_value, bonus_amount,
			is_active, valid_from, valid_to, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		program.ID, program.Name, program.Type, program.Period, program.TargetValue,
		program.BonusAmount, program.IsActive, program.ValidFrom, program.ValidTo,
		program.CreatedAt, program.UpdatedAt,
	)
	return err
}

func (r *RuleRepository) UpdateProgram(ctx context.Context, program *entity.BonusProgram) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE bonus_programs
		SET name = ?, target_value = ?, bonus_amount = ?,
			valid_from = ?, valid_to = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = db.ExecContext(ctx, query,
		program.Name, program.TargetValue, program.BonusAmount,
		program.ValidFrom, program.ValidTo, time.Now().UTC(), program.ID,
	)
	return err
}

func (r *RuleRepository) DeactivateProgram(ctx context.Context, id string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE bonus_programs SET is_active = 0, updated_at = ? WHERE id = ?`

	_, err = db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}
