package usecase

import (
	"context"
	"fmt"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
)

// PeriodKey labels the specific period instance a quest award belongs to.
// It is part of the bonus_awards unique key, so two callers racing on the
// same period collide instead of double-awarding.
func PeriodKey(period string, at time.Time) string {
	t := at.UTC()
	switch period {
	case entity.PeriodDaily:
		return t.Format("2006-01-02")
	case entity.PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case entity.PeriodMonthly:
		return t.Format("2006-01")
	default:
		return "lifetime"
	}
}

// PeriodStart returns the UTC lower bound of the metric window: start of
// day, most recent Monday 00:00 (ISO week), first of month, or the epoch.
func PeriodStart(period string, at time.Time) time.Time {
	t := at.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case entity.PeriodDaily:
		return day
	case entity.PeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case entity.PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Unix(0, 0).UTC()
	}
}

func (c *EarningsUseCase) questMetric(ctx context.Context, ex mysql.Executor, program *entity.BonusProgram, trip *entity.Trip) (int64, error) {
	start := PeriodStart(program.Period, trip.CompletedAt)

	switch program.Type {
	case entity.ProgramTypeDailyTrips, entity.ProgramTypeWeeklyTrips,
		entity.ProgramTypeMonthlyTrips, entity.ProgramTypeLifetimeTrips:
		return c.Trips.CountCompletedSince(ctx, ex, trip.DriverID, start)
	case entity.ProgramTypeDailyEarnings, entity.ProgramTypeWeeklyEarnings,
		entity.ProgramTypeMonthlyEarnings:
		return c.Trips.SumGrossFaresSince(ctx, ex, trip.DriverID, start)
	default:
		return 0, fmt.Errorf("unknown program type %s", program.Type)
	}
}

// evaluateQuestBonuses runs after the mandatory per-trip postings, in the
// same unit of work, continuing the running balance. Quest bonuses are
// best-effort: a failure in one program is logged and skipped, never
// aborting the other programs or the trip's main postings. The award row's
// unique key is the authoritative once-per-period guard.
func (c *EarningsUseCase) evaluateQuestBonuses(ctx context.Context, ex mysql.Executor, trip *entity.Trip, wallet *entity.DriverWallet, runningBalance int64) ([]entity.BonusAward, []entity.DriverWalletTransaction) {
	programs, err := c.Rules.LoadActivePrograms(ctx)
	if err != nil {
		c.Log.Error("quest-evaluator", fmt.Sprintf("failed to load programs: %v", err), "evaluateQuestBonuses", trip.ID)
		return nil, nil
	}

	var awards []entity.BonusAward
	var entries []entity.DriverWalletTransaction
	running := runningBalance

	for i := range programs {
		program := programs[i]
		periodKey := PeriodKey(program.Period, trip.CompletedAt)

		existing, err := c.Awards.Find(ctx, ex, trip.DriverID, program.ID, periodKey)
		if err != nil {
			c.Log.Error("quest-evaluator", fmt.Sprintf("award lookup failed: %v", err), program.ID, trip.ID)
			continue
		}
		if existing != nil {
			continue
		}

		metric, err := c.questMetric(ctx, ex, &program, trip)
		if err != nil {
			c.Log.Error("quest-evaluator", fmt.Sprintf("metric query failed: %v", err), program.ID, trip.ID)
			continue
		}
		if metric < program.TargetValue {
			continue
		}

		award := entity.BonusAward{
			ID:            uuid.NewString(),
			DriverID:      trip.DriverID,
			ProgramID:     program.ID,
			PeriodKey:     periodKey,
			AwardedAmount: program.BonusAmount,
			TriggerTripID: trip.ID,
			MetricAtAward: metric,
			AwardedAt:     time.Now().UTC(),
		}
		if err := c.Awards.Insert(ctx, ex, &award); err != nil {
			if mysql.IsDuplicateEntry(err) {
				// a concurrent caller already awarded this period
				continue
			}
			c.Log.Error("quest-evaluator", fmt.Sprintf("award insert failed: %v", err), program.ID, trip.ID)
			continue
		}

		running += program.BonusAmount
		txn := entity.DriverWalletTransaction{
			ID:             uuid.NewString(),
			DriverID:       trip.DriverID,
			WalletID:       wallet.ID,
			TripID:         &trip.ID,
			BonusProgramID: &programs[i].ID,
			BonusAwardID:   &award.ID,
			Type:           entity.TxnTypeBonusQuest,
			Amount:         program.BonusAmount,
			BalanceAfter:   running,
			Description:    program.Name,
			Reference:      fmt.Sprintf("%s:%s:%s:%s", entity.TxnTypeBonusQuest, program.ID, trip.DriverID, periodKey),
			Metadata: entity.Metadata{
				"metric": metric,
				"target": program.TargetValue,
			},
			CreatedAt: time.Now().UTC(),
		}
		if err := c.Ledger.Insert(ctx, ex, &txn); err != nil {
			c.Log.Error("quest-evaluator", fmt.Sprintf("quest ledger row failed, award %s has no posting: %v", award.ID, err), program.ID, trip.ID)
			running -= program.BonusAmount
			continue
		}
		if err := c.Wallets.ApplyQuestBonus(ctx, ex, wallet.ID, program.BonusAmount); err != nil {
			c.Log.Error("quest-evaluator", fmt.Sprintf("quest wallet increment failed for award %s: %v", award.ID, err), program.ID, trip.ID)
			continue
		}

		awards = append(awards, award)
		entries = append(entries, txn)
	}

	return awards, entries
}
