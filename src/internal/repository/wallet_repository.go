package repository

import (
	"context"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
)

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{
		DB: db,
	}
}

// EnsureWallet atomically finds or creates the driver's wallet. The UNIQUE
// key on driver_id plus the upsert guarantees two concurrent first-trips for
// the same driver converge on one wallet row.
func (r *WalletRepository) EnsureWallet(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error) {
	query := `
		INSERT INTO driver_wallets (
			id, driver_id, balance, total_earned, total_commission,
			total_bonuses, total_payouts, status, currency, created_at, updated_at
		) VALUES (?, ?, 0, 0, 0, 0, 0, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE driver_id = driver_id
	`

	now := time.Now().UTC()
	_, err := ex.ExecContext(ctx, query, uuid.NewString(), driverID, entity.WalletStatusActive, "XAF", now, now)
	if err != nil {
		return nil, err
	}

	return r.FindByDriverID(ctx, ex, driverID)
}

func (r *WalletRepository) FindByDriverID(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error) {
	var wallet entity.DriverWallet

	query := `
		SELECT
			id, driver_id, balance, total_earned, total_commission,
			total_bonuses, total_payouts, status, currency, created_at, updated_at
		FROM driver_wallets
		WHERE driver_id = ?
	`

	err := ex.GetContext(ctx, &wallet, query, driverID)
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

// ApplyTripTotals increments balance and lifetime aggregates in one atomic
// update expression. Never read-modify-write: concurrent postings for the
// same driver must serialize at the storage layer.
func (r *WalletRepository) ApplyTripTotals(ctx context.Context, ex mysql.Executor, walletID string, driverNet, earnedDelta, commissionDelta, bonusDelta int64) error {
	query := `
		UPDATE driver_wallets
		SET balance = balance + ?,
			total_earned = total_earned + ?,
			total_commission = total_commission + ?,
			total_bonuses = total_bonuses + ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := ex.ExecContext(ctx, query, driverNet, earnedDelta, commissionDelta, bonusDelta, time.Now().UTC(), walletID)
	return err
}

func (r *WalletRepository) ApplyQuestBonus(ctx context.Context, ex mysql.Executor, walletID string, amount int64) error {
	query := `
		UPDATE driver_wallets
		SET balance = balance + ?,
			total_earned = total_earned + ?,
			total_bonuses = total_bonuses + ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := ex.ExecContext(ctx, query, amount, amount, amount, time.Now().UTC(), walletID)
	return err
}
