package model

import "time"

type Event interface {
	GetId() string
}

// EarningsSettledEvent is published after the unit of work commits, one per
// settled trip.
type EarningsSettledEvent struct {
	EventID          string    `json:"event_id"`
	TripID           string    `json:"trip_id"`
	DriverID         string    `json:"driver_id"`
	ReceiptID        string    `json:"receipt_id"`
	GrossFare        int64     `json:"gross_fare"`
	CommissionAmount int64     `json:"commission_amount"`
	BonusTotal       int64     `json:"bonus_total"`
	DriverNet        int64     `json:"driver_net"`
	ProcessedAt      time.Time `json:"processed_at"`
}

func (e *EarningsSettledEvent) GetId() string {
	return e.EventID
}

// QuestAwardEvent is published for every quest bonus granted alongside a
// settled trip.
type QuestAwardEvent struct {
	EventID       string    `json:"event_id"`
	AwardID       string    `json:"award_id"`
	DriverID      string    `json:"driver_id"`
	ProgramID     string    `json:"program_id"`
	PeriodKey     string    `json:"period_key"`
	AwardedAmount int64     `json:"awarded_amount"`
	AwardedAt     time.Time `json:"awarded_at"`
}

func (e *QuestAwardEvent) GetId() string {
	return e.EventID
}
