package converter

import (
	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/model"

	"github.com/google/uuid"
)

func ReceiptToSettledEvent(receipt *entity.TripReceipt) *model.EarningsSettledEvent {
	event := &model.EarningsSettledEvent{
		EventID:          uuid.NewString(),
		TripID:           receipt.TripID,
		DriverID:         receipt.DriverID,
		ReceiptID:        receipt.ID,
		GrossFare:        receipt.GrossFare,
		CommissionAmount: receipt.CommissionAmount,
		BonusTotal:       receipt.BonusTotal,
		DriverNet:        receipt.DriverNet,
	}
	if receipt.ProcessedAt != nil {
		event.ProcessedAt = *receipt.ProcessedAt
	}
	return event
}

func AwardToEvent(award *entity.BonusAward) *model.QuestAwardEvent {
	return &model.QuestAwardEvent{
		EventID:       uuid.NewString(),
		AwardID:       award.ID,
		DriverID:      award.DriverID,
		ProgramID:     award.ProgramID,
		PeriodKey:     award.PeriodKey,
		AwardedAmount: award.AwardedAmount,
		AwardedAt:     award.AwardedAt,
	}
}
