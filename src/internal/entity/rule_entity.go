package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RuleTypeCommissionPercent = "COMMISSION_PERCENT"
	RuleTypeBonusFlat         = "BONUS_FLAT"
	RuleTypeBonusMultiplier   = "BONUS_MULTIPLIER"
	RuleTypePenalty           = "PENALTY"
)

// EarningRule is a versioned, time-windowed earning rule. Rules are never
// deleted, only deactivated; posted ledger rows keep a snapshot of the rule
// rather than a live reference.
//
// Value semantics by type: COMMISSION_PERCENT holds a percentage (10 = 10%),
// BONUS_FLAT and PENALTY hold flat XAF amounts, BONUS_MULTIPLIER holds a
// fare multiplier (0.05 = 5% of gross fare).
type EarningRule struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Type       string         `db:"rule_type" json:"type"`
	Value      float64        `db:"rule_value" json:"value"`
	Conditions RuleConditions `db:"conditions" json:"conditions"`
	Priority   int            `db:"priority" json:"priority"`
	IsActive   bool           `db:"is_active" json:"isActive"`
	ValidFrom  *time.Time     `db:"valid_from" json:"validFrom,omitempty"`
	ValidTo    *time.Time     `db:"valid_to" json:"validTo,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// RuleConditions is the typed predicate attached to a rule. Every field is
// optional; an empty struct matches every trip. Days of week use Go's
// time.Weekday numbering (0 = Sunday). Hour windows may wrap midnight
// (HourFrom 22, HourTo 6 covers 22:00-06:00).
type RuleConditions struct {
	City          *string  `json:"city,omitempty"`
	HourFrom      *int     `json:"hour_from,omitempty"`
	HourTo        *int     `json:"hour_to,omitempty"`
	DaysOfWeek    []int    `json:"days_of_week,omitempty"`
	MinFare       *int64   `json:"min_fare,omitempty"`
	MaxFare       *int64   `json:"max_fare,omitempty"`
	MinDistanceKm *float64 `json:"min_distance_km,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	DriverTier    *string  `json:"driver_tier,omitempty"`
	PickupZone    *string  `json:"pickup_zone,omitempty"`
}

func (c RuleConditions) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *RuleConditions) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			*c = RuleConditions{}
			return nil
		}
		return json.Unmarshal(data, c)
	case string:
		if data == "" {
			*c = RuleConditions{}
			return nil
		}
		return json.Unmarshal([]byte(data), c)
	case nil:
		*c = RuleConditions{}
		return nil
	default:
		return fmt.Errorf("unsupported type %T for RuleConditions", src)
	}
}
