package repository

import (
	"context"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

type LedgerRepository struct {
	DB mysql.DBInterface
}

func NewLedgerRepository(db mysql.DBInterface) *LedgerRepository {
	return &LedgerRepository{
		DB: db,
	}
}

// Insert appends one ledger row. The table is append-only; the UNIQUE key on
// reference is the defense-in-depth duplicate guard behind the receipt
// anchor.
func (r *LedgerRepository) Insert(ctx context.Context, ex mysql.Executor, txn *entity.DriverWalletTransaction) error {
	query := `
		INSERT INTO driver_wallet_transactions (
			id, driver_id, wallet_id, trip_id, receipt_id, rule_id,
			bonus_program_id, bonus_award_id, txn_type, amount, balance_after,
			description, reference, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := ex.ExecContext(ctx, query,
		txn.ID,
		txn.DriverID,
		txn.WalletID,
		txn.TripID,
		txn.ReceiptID,
		txn.RuleID,
		txn.BonusProgramID,
		txn.BonusAwardID,
		txn.Type,
		txn.Amount,
		txn.BalanceAfter,
		txn.Description,
		txn.Reference,
		txn.Metadata,
		txn.CreatedAt,
	)
	return err
}

func (r *LedgerRepository) ListByDriver(ctx context.Context, ex mysql.Executor, driverID string, limit, offset int) ([]entity.DriverWalletTransaction, error) {
	var txns []entity.DriverWalletTransaction

	query := `
		SELECT
			id, driver_id, wallet_id, trip_id, receipt_id, rule_id,
			bonus_program_id, bonus_award_id, txn_type, amount, balance_after,
			description, reference, metadata, created_at
		FROM driver_wallet_transactions
		WHERE driver_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	err := ex.SelectContext(ctx, &txns, query, driverID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// SumAmounts reconstructs the wallet balance from the ledger. Read-only,
// used by reconciliation checks, never to correct a balance.
func (r *LedgerRepository) SumAmounts(ctx context.Context, ex mysql.Executor, driverID string) (int64, error) {
	var total int64

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM driver_wallet_transactions
		WHERE driver_id = ?
	`

	err := ex.GetContext(ctx, &total, query, driverID)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// EarningsSince sums earning-type rows and counts TRIP_FARE rows over the
// window for the wallet summary surface.
func (r *LedgerRepository) EarningsSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, int64, error) {
	var row struct {
		NetEarnings int64 `db:"net_earnings"`
		TripCount   int64 `db:"trip_count"`
	}

	query := `
		SELECT
			COALESCE(SUM(amount), 0) AS net_earnings,
			COALESCE(SUM(txn_type = ?), 0) AS trip_count
		FROM driver_wallet_transactions
		WHERE driver_id = ?
		AND txn_type IN (?, ?, ?)
		AND created_at >= ?
	`

	err := ex.GetContext(ctx, &row, query,
		entity.TxnTypeTripFare,
		driverID,
		entity.TxnTypeTripFare,
		entity.TxnTypeBonusTrip,
		entity.TxnTypeBonusQuest,
		since,
	)
	if err != nil {
		return 0, 0, err
	}

	return row.NetEarnings, row.TripCount, nil
}
