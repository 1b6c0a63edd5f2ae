package usecase

import (
	"math"
	"strings"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/model"
)

// Placeholder until a driver-profile collaborator supplies real tiers.
const defaultDriverTier = "STANDARD"

// BuildTripContext derives the rule-evaluation context from a completed
// trip. Hour and weekday come from the completion timestamp in UTC.
func BuildTripContext(trip *entity.Trip, grossFare int64) model.TripContext {
	at := trip.CompletedAt.UTC()
	return model.TripContext{
		Hour:          at.Hour(),
		Weekday:       int(at.Weekday()),
		City:          ExtractCity(trip.PickupAddress),
		Fare:          grossFare,
		DistanceKm:    trip.DistanceKm,
		PaymentMethod: trip.PaymentMethod,
		DriverTier:    defaultDriverTier,
	}
}

// ExtractCity takes the last comma-separated segment of a pickup address,
// which is where the city sits in the address format the trip service emits
// ("Rue Joffre, Akwa, Douala" -> "Douala").
func ExtractCity(address string) string {
	parts := strings.Split(address, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if city := strings.TrimSpace(parts[i]); city != "" {
			return city
		}
	}
	return ""
}

// RoundXAF rounds to the nearest whole franc. XAF has no subunits; amounts
// are rounded at the point of computation and never accumulated as floats.
func RoundXAF(v float64) int64 {
	return int64(math.Round(v))
}

// MatchesContext reports whether every specified condition holds. A rule
// with no conditions matches everything.
func MatchesContext(cond entity.RuleConditions, tctx model.TripContext) bool {
	if cond.City != nil && !strings.EqualFold(*cond.City, tctx.City) {
		return false
	}
	if cond.HourFrom != nil && cond.HourTo != nil {
		from, to := *cond.HourFrom, *cond.HourTo
		h := tctx.Hour
		if from > to {
			// window wraps midnight, e.g. 22:00-06:00
			if !(h >= from || h < to) {
				return false
			}
		} else {
			if !(h >= from && h < to) {
				return false
			}
		}
	}
	if len(cond.DaysOfWeek) > 0 {
		found := false
		for _, day := range cond.DaysOfWeek {
			if day == tctx.Weekday {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if cond.MinFare != nil && tctx.Fare < *cond.MinFare {
		return false
	}
	if cond.MaxFare != nil && tctx.Fare >= *cond.MaxFare {
		return false
	}
	if cond.MinDistanceKm != nil && tctx.DistanceKm < *cond.MinDistanceKm {
		return false
	}
	if cond.PaymentMethod != nil && !strings.EqualFold(*cond.PaymentMethod, tctx.PaymentMethod) {
		return false
	}
	if cond.DriverTier != nil && !strings.EqualFold(*cond.DriverTier, tctx.DriverTier) {
		return false
	}
	if cond.PickupZone != nil && !strings.EqualFold(*cond.PickupZone, tctx.PickupZone) {
		return false
	}
	return true
}

// EvaluateRules runs the prioritized rule set over one trip. Rules must be
// ordered by priority descending. Commission is first-match: the highest
// priority matching COMMISSION_PERCENT rule wins and lower-priority ones are
// ignored. Bonuses and penalties are additive: every matching rule
// contributes its own signed line.
func EvaluateRules(rules []entity.EarningRule, tctx model.TripContext, grossFare int64, defaultRate float64) model.RuleEvaluation {
	eval := model.RuleEvaluation{}

	for i := range rules {
		rule := rules[i]
		if !MatchesContext(rule.Conditions, tctx) {
			continue
		}

		switch rule.Type {
		case entity.RuleTypeCommissionPercent:
			if eval.CommissionRule != nil {
				continue
			}
			eval.CommissionRule = &rules[i]
			eval.CommissionRate = rule.Value / 100
			eval.CommissionAmount = RoundXAF(float64(grossFare) * eval.CommissionRate)
		case entity.RuleTypeBonusFlat:
			eval.Bonuses = append(eval.Bonuses, model.BonusLine{
				Rule:   rule,
				Amount: RoundXAF(rule.Value),
			})
		case entity.RuleTypeBonusMultiplier:
			eval.Bonuses = append(eval.Bonuses, model.BonusLine{
				Rule:   rule,
				Amount: RoundXAF(float64(grossFare) * rule.Value),
			})
		case entity.RuleTypePenalty:
			eval.Bonuses = append(eval.Bonuses, model.BonusLine{
				Rule:   rule,
				Amount: -RoundXAF(math.Abs(rule.Value)),
			})
		}
	}

	if eval.CommissionRule == nil {
		eval.UsedDefaultRate = true
		eval.CommissionRate = defaultRate
		eval.CommissionAmount = RoundXAF(float64(grossFare) * defaultRate)
	}

	return eval
}
