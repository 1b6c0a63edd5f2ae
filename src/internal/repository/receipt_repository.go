package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

type ReceiptRepository struct {
	DB mysql.DBInterface
}

func NewReceiptRepository(db mysql.DBInterface) *ReceiptRepository {
	return &ReceiptRepository{
		DB: db,
	}
}

// FindByTripID returns nil, nil when no receipt exists for the trip.
func (r *ReceiptRepository) FindByTripID(ctx context.Context, ex mysql.Executor, tripID string) (*entity.TripReceipt, error) {
	var receipt entity.TripReceipt

	query := `
		SELECT
			id,
			trip_id,
			driver_id,
			passenger_id,
			gross_fare,
			commission_rate,
			commission_amount,
			bonus_total,
			driver_net,
			payment_method,
			commission_rule_id,
			applied_rules,
			status,
			processed_at,
			created_at
		FROM trip_receipts
		WHERE trip_id = ?
	`

	err := ex.GetContext(ctx, &receipt, query, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &receipt, nil
}

func (r *ReceiptRepository) Insert(ctx context.Context, ex mysql.Executor, receipt *entity.TripReceipt) error {
	query := `
		INSERT INTO trip_receipts (
			id, trip_id, driver_id, passenger_id,
			gross_fare, commission_rate, commission_amount, bonus_total, driver_net,
			payment_method, commission_rule_id, applied_rules, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := ex.ExecContext(ctx, query,
		receipt.ID,
		receipt.TripID,
		receipt.DriverID,
		receipt.PassengerID,
		receipt.GrossFare,
		receipt.CommissionRate,
		receipt.CommissionAmount,
		receipt.BonusTotal,
		receipt.DriverNet,
		receipt.PaymentMethod,
		receipt.CommissionRuleID,
		receipt.AppliedRules,
		receipt.Status,
		receipt.CreatedAt,
	)
	return err
}

func (r *ReceiptRepository) MarkSettled(ctx context.Context, ex mysql.Executor, receiptID string, processedAt time.Time) error {
	query := `
		UPDATE trip_receipts
		SET status = ?, processed_at = ?
		WHERE id = ? AND status = ?
	`

	_, err := ex.ExecContext(ctx, query, entity.ReceiptStatusSettled, processedAt, receiptID, entity.ReceiptStatusPending)
	return err
}
