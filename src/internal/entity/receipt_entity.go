package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ReceiptStatusPending = "PENDING"
	ReceiptStatusSettled = "SETTLED"
)

// TripReceipt is the one-row-per-trip idempotency anchor and the audit
// snapshot of exactly which rules were applied. The UNIQUE key on trip_id is
// what makes concurrent or retried trip completions safe. Created PENDING and
// settled within the same unit of work that posts the ledger rows; never
// touched afterward.
type TripReceipt struct {
	ID               string          `db:"id" json:"id"`
	TripID           string          `db:"trip_id" json:"tripId"`
	DriverID         string          `db:"driver_id" json:"driverId"`
	PassengerID      string          `db:"passenger_id" json:"passengerId"`
	GrossFare        int64           `db:"gross_fare" json:"grossFare"`
	CommissionRate   float64         `db:"commission_rate" json:"commissionRate"`
	CommissionAmount int64           `db:"commission_amount" json:"commissionAmount"`
	BonusTotal       int64           `db:"bonus_total" json:"bonusTotal"`
	DriverNet        int64           `db:"driver_net" json:"driverNet"`
	PaymentMethod    string          `db:"payment_method" json:"paymentMethod"`
	CommissionRuleID *string         `db:"commission_rule_id" json:"commissionRuleId,omitempty"`
	AppliedRules     AppliedRuleList `db:"applied_rules" json:"appliedRules"`
	Status           string          `db:"status" json:"status"`
	ProcessedAt      *time.Time      `db:"processed_at" json:"processedAt,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
}

// AppliedRule is the per-rule snapshot stored on the receipt. DefaultRate
// marks the fallback commission entry written when no commission rule
// matched, so misconfiguration stays visible to operators.
type AppliedRule struct {
	RuleID      string  `json:"ruleId"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	BonusXAF    *int64  `json:"bonusXaf,omitempty"`
	DefaultRate bool    `json:"defaultRate,omitempty"`
}

type AppliedRuleList []AppliedRule

func (l AppliedRuleList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AppliedRuleList{})
	}
	return json.Marshal(l)
}

func (l *AppliedRuleList) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(data, l)
	case string:
		if data == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(data), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for AppliedRuleList", src)
	}
}
