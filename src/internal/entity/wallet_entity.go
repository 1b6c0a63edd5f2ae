package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	WalletStatusActive = "ACTIVE"
	WalletStatusFrozen = "FROZEN"
)

const (
	TxnTypeTripFare   = "TRIP_FARE"
	TxnTypeCommission = "COMMISSION"
	TxnTypeBonusTrip  = "BONUS_TRIP"
	TxnTypeBonusQuest = "BONUS_QUEST"
	TxnTypeAdjustment = "ADJUSTMENT"
	TxnTypeRefund     = "REFUND"
	TxnTypePayout     = "PAYOUT"
)

// DriverWallet holds a denormalized running balance plus lifetime aggregates.
// Balance always equals the sum of ledger-row amounts for the wallet and is
// only ever mutated through atomic increments tied to a ledger write.
type DriverWallet struct {
	ID              string    `db:"id" json:"id"`
	DriverID        string    `db:"driver_id" json:"driverId"`
	Balance         int64     `db:"balance" json:"balance"`
	TotalEarned     int64     `db:"total_earned" json:"totalEarned"`
	TotalCommission int64     `db:"total_commission" json:"totalCommission"`
	TotalBonuses    int64     `db:"total_bonuses" json:"totalBonuses"`
	TotalPayouts    int64     `db:"total_payouts" json:"totalPayouts"`
	Status          string    `db:"status" json:"status"`
	Currency        string    `db:"currency" json:"currency"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// DriverWalletTransaction is one immutable ledger row. Append-only: no
// updates, no deletes; corrections are new ADJUSTMENT rows. Reference is the
// UNIQUE idempotency key in the form {type}:{entityId}[:{tripId}].
type DriverWalletTransaction struct {
	ID             string    `db:"id" json:"id"`
	DriverID       string    `db:"driver_id" json:"driverId"`
	WalletID       string    `db:"wallet_id" json:"walletId"`
	TripID         *string   `db:"trip_id" json:"tripId,omitempty"`
	ReceiptID      *string   `db:"receipt_id" json:"receiptId,omitempty"`
	RuleID         *string   `db:"rule_id" json:"ruleId,omitempty"`
	BonusProgramID *string   `db:"bonus_program_id" json:"bonusProgramId,omitempty"`
	BonusAwardID   *string   `db:"bonus_award_id" json:"bonusAwardId,omitempty"`
	Type           string    `db:"txn_type" json:"type"`
	Amount         int64     `db:"amount" json:"amount"`
	BalanceAfter   int64     `db:"balance_after" json:"balanceAfter"`
	Description    string    `db:"description" json:"description"`
	Reference      string    `db:"reference" json:"reference"`
	Metadata       Metadata  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Metadata is free-form audit context stored as a JSON column.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			*m = nil
			return nil
		}
		return json.Unmarshal(data, m)
	case string:
		if data == "" {
			*m = nil
			return nil
		}
		return json.Unmarshal([]byte(data), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for Metadata", src)
	}
}
