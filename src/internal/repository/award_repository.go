package repository

import (
	"context"
	"database/sql"
	"errors"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

type AwardRepository struct {
	DB mysql.DBInterface
}

func NewAwardRepository(db mysql.DBInterface) *AwardRepository {
	return &AwardRepository{
		DB: db,
	}
}

// Find returns nil, nil when the driver has not been awarded this program in
// this period.
func (r *AwardRepository) Find(ctx context.Context, ex mysql.Executor, driverID, programID, periodKey string) (*entity.BonusAward, error) {
	var award entity.BonusAward

	query := `
		SELECT
			id, driver_id, program_id, period_key, awarded_amount,
			trigger_trip_id, metric_at_award, awarded_at
		FROM bonus_awards
		WHERE driver_id = ? AND program_id = ? AND period_key = ?
	`

	err := ex.GetContext(ctx, &award, query, driverID, programID, periodKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &award, nil
}

// Insert relies on the UNIQUE key (driver_id, program_id, period_key) as the
// authoritative once-per-period guard; duplicate-entry errors mean a
// concurrent caller already awarded.
func (r *AwardRepository) Insert(ctx context.Context, ex mysql.Executor, award *entity.BonusAward) error {
	query := `
		INSERT INTO bonus_awards (
			id, driver_id, program_id, period_key, awarded_amount,
			trigger_trip_id, metric_at_award, awarded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := ex.ExecContext(ctx, query,
		award.ID,
		award.DriverID,
		award.ProgramID,
		award.PeriodKey,
		award.AwardedAmount,
		award.TriggerTripID,
		award.MetricAtAward,
		award.AwardedAt,
	)
	return err
}
