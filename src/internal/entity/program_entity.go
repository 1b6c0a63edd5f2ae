package entity

import "time"

const (
	ProgramTypeDailyTrips      = "DAILY_TRIPS"
	ProgramTypeWeeklyTrips     = "WEEKLY_TRIPS"
	ProgramTypeMonthlyTrips    = "MONTHLY_TRIPS"
	ProgramTypeLifetimeTrips   = "LIFETIME_TRIPS"
	ProgramTypeDailyEarnings   = "DAILY_EARNINGS"
	ProgramTypeWeeklyEarnings  = "WEEKLY_EARNINGS"
	ProgramTypeMonthlyEarnings = "MONTHLY_EARNINGS"
)

const (
	PeriodDaily    = "DAILY"
	PeriodWeekly   = "WEEKLY"
	PeriodMonthly  = "MONTHLY"
	PeriodLifetime = "LIFETIME"
)

// BonusProgram is a quest/milestone bonus: a fixed amount awarded at most
// once per driver per period when an aggregate metric crosses the target.
type BonusProgram struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Type        string     `db:"program_type" json:"type"`
	Period      string     `db:"period" json:"period"`
	TargetValue int64      `db:"target_value" json:"targetValue"`
	BonusAmount int64      `db:"bonus_amount" json:"bonusAmount"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	ValidFrom   *time.Time `db:"valid_from" json:"validFrom,omitempty"`
	ValidTo     *time.Time `db:"valid_to" json:"validTo,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// BonusAward records one quest payout. The UNIQUE key on
// (driver_id, program_id, period_key) is the sole guard against
// double-awarding within a period.
type BonusAward struct {
	ID            string    `db:"id" json:"id"`
	DriverID      string    `db:"driver_id" json:"driverId"`
	ProgramID     string    `db:"program_id" json:"programId"`
	PeriodKey     string    `db:"period_key" json:"periodKey"`
	AwardedAmount int64     `db:"awarded_amount" json:"awardedAmount"`
	TriggerTripID string    `db:"trigger_trip_id" json:"triggerTripId"`
	MetricAtAward int64     `db:"metric_at_award" json:"metricAtAward"`
	AwardedAt     time.Time `db:"awarded_at" json:"awardedAt"`
}
