package model

import "earnings-service/src/internal/entity"

// TripContext is the evaluation context derived from a completed trip.
// Hour and Weekday come from the completion timestamp in UTC; City is a
// heuristic extracted from the pickup address string.
type TripContext struct {
	Hour          int
	Weekday       int
	City          string
	Fare          int64
	DistanceKm    float64
	PaymentMethod string
	DriverTier    string
	PickupZone    string
}

// RuleEvaluation is the outcome of running the rule set over one trip.
type RuleEvaluation struct {
	CommissionRule   *entity.EarningRule
	CommissionRate   float64
	CommissionAmount int64
	UsedDefaultRate  bool
	Bonuses          []BonusLine
}

// BonusLine is one matching bonus or penalty rule with its computed signed
// amount in XAF.
type BonusLine struct {
	Rule   entity.EarningRule
	Amount int64
}

// ProcessTripResult is what the ledger core hands back to the
// trip-completion workflow.
type ProcessTripResult struct {
	AlreadyProcessed bool                             `json:"alreadyProcessed"`
	Skipped          bool                             `json:"skipped"`
	Receipt          *entity.TripReceipt              `json:"receipt,omitempty"`
	WalletEntries    []entity.DriverWalletTransaction `json:"walletEntries,omitempty"`
	QuestAwards      []entity.BonusAward              `json:"questAwards,omitempty"`
}

type SettleTripPayload struct {
	TripID string `json:"tripId"`
}

type SettleTripRequest struct {
	TripID string `json:"tripId" validate:"required,max=100"`
}
