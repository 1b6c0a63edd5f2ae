package model

import "time"

type WalletSummaryRequest struct {
	DriverID string `json:"driverId" validate:"required,max=100"`
}

type WalletTransactionsRequest struct {
	DriverID string `json:"driverId" validate:"required,max=100"`
	Limit    int    `json:"limit" validate:"min=1,max=100"`
	Offset   int    `json:"offset" validate:"min=0"`
}

type ReceiptRequest struct {
	TripID string `json:"tripId" validate:"required,max=100"`
}

// PeriodEarnings is net earnings and trip count over one window, derived by
// summing earning-type ledger rows (TRIP_FARE, BONUS_TRIP, BONUS_QUEST).
type PeriodEarnings struct {
	NetEarnings int64 `json:"netEarnings"`
	TripCount   int64 `json:"tripCount"`
}

type WalletSummaryResponse struct {
	WalletID        string         `json:"walletId"`
	DriverID        string         `json:"driverId"`
	Balance         int64          `json:"balance"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	TotalEarned     int64          `json:"totalEarned"`
	TotalCommission int64          `json:"totalCommission"`
	TotalBonuses    int64          `json:"totalBonuses"`
	TotalPayouts    int64          `json:"totalPayouts"`
	Today           PeriodEarnings `json:"today"`
	ThisWeek        PeriodEarnings `json:"thisWeek"`
	ThisMonth       PeriodEarnings `json:"thisMonth"`
	AsOf            time.Time      `json:"asOf"`
}
