package usecase

import (
	"testing"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func floatPtr(f float64) *float64 { return &f }

func TestExtractCity(t *testing.T) {
	assert.Equal(t, "Douala", ExtractCity("Rue Joffre, Akwa, Douala"))
	assert.Equal(t, "Yaounde", ExtractCity("Yaounde"))
	assert.Equal(t, "Douala", ExtractCity("Akwa, Douala, "))
	assert.Equal(t, "", ExtractCity(""))
}

func TestRoundXAF(t *testing.T) {
	assert.Equal(t, int64(0), RoundXAF(0.4))
	assert.Equal(t, int64(1), RoundXAF(0.5))
	assert.Equal(t, int64(163), RoundXAF(162.5))
	assert.Equal(t, int64(-1), RoundXAF(-0.5))
}

func TestMatchesContextHourWindow(t *testing.T) {
	nightSurge := entity.RuleConditions{HourFrom: intPtr(22), HourTo: intPtr(6)}
	daytime := entity.RuleConditions{HourFrom: intPtr(9), HourTo: intPtr(17)}

	tests := []struct {
		name  string
		cond  entity.RuleConditions
		hour  int
		match bool
	}{
		{"wraparound matches late evening", nightSurge, 23, true},
		{"wraparound matches early morning", nightSurge, 2, true},
		{"wraparound matches lower bound", nightSurge, 22, true},
		{"wraparound excludes upper bound", nightSurge, 6, false},
		{"wraparound excludes midday", nightSurge, 12, false},
		{"plain window matches", daytime, 9, true},
		{"plain window excludes upper bound", daytime, 17, false},
		{"plain window excludes night", daytime, 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tctx := model.TripContext{Hour: tc.hour}
			assert.Equal(t, tc.match, MatchesContext(tc.cond, tctx))
		})
	}
}

func TestMatchesContextConditions(t *testing.T) {
	tctx := model.TripContext{
		Hour:          10,
		Weekday:       6, // Saturday
		City:          "Douala",
		Fare:          5000,
		DistanceKm:    4.2,
		PaymentMethod: "CASH",
		DriverTier:    "STANDARD",
	}

	t.Run("empty conditions match everything", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{}, tctx))
	})

	t.Run("city is case insensitive", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{City: strPtr("douala")}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{City: strPtr("Yaounde")}, tctx))
	})

	t.Run("days of week", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{DaysOfWeek: []int{0, 6}}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{DaysOfWeek: []int{1, 2, 3}}, tctx))
	})

	t.Run("min fare inclusive, max fare exclusive", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{MinFare: int64Ptr(5000)}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{MinFare: int64Ptr(5001)}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{MaxFare: int64Ptr(5000)}, tctx))
		assert.True(t, MatchesContext(entity.RuleConditions{MaxFare: int64Ptr(5001)}, tctx))
	})

	t.Run("min distance", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{MinDistanceKm: floatPtr(4.0)}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{MinDistanceKm: floatPtr(5.0)}, tctx))
	})

	t.Run("payment method and tier", func(t *testing.T) {
		assert.True(t, MatchesContext(entity.RuleConditions{PaymentMethod: strPtr("cash")}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{PaymentMethod: strPtr("MOMO")}, tctx))
		assert.True(t, MatchesContext(entity.RuleConditions{DriverTier: strPtr("STANDARD")}, tctx))
		assert.False(t, MatchesContext(entity.RuleConditions{DriverTier: strPtr("GOLD")}, tctx))
	})
}

func TestEvaluateRulesCommissionFirstMatch(t *testing.T) {
	rules := []entity.EarningRule{
		{ID: "r-premium", Type: entity.RuleTypeCommissionPercent, Value: 15, Priority: 100,
			Conditions: entity.RuleConditions{City: strPtr("Douala")}},
		{ID: "r-base", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 10},
	}
	tctx := model.TripContext{City: "Douala", Fare: 5000}

	eval := EvaluateRules(rules, tctx, 5000, 0.10)

	require.NotNil(t, eval.CommissionRule)
	assert.Equal(t, "r-premium", eval.CommissionRule.ID)
	assert.Equal(t, 0.15, eval.CommissionRate)
	assert.Equal(t, int64(750), eval.CommissionAmount)
	assert.False(t, eval.UsedDefaultRate)
}

func TestEvaluateRulesLowerPriorityCommissionWhenHigherSkips(t *testing.T) {
	rules := []entity.EarningRule{
		{ID: "r-premium", Type: entity.RuleTypeCommissionPercent, Value: 15, Priority: 100,
			Conditions: entity.RuleConditions{City: strPtr("Yaounde")}},
		{ID: "r-base", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 10},
	}
	tctx := model.TripContext{City: "Douala", Fare: 5000}

	eval := EvaluateRules(rules, tctx, 5000, 0.10)

	require.NotNil(t, eval.CommissionRule)
	assert.Equal(t, "r-base", eval.CommissionRule.ID)
	assert.Equal(t, int64(500), eval.CommissionAmount)
}

func TestEvaluateRulesBonusesAreAdditive(t *testing.T) {
	rules := []entity.EarningRule{
		{ID: "c", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
		{ID: "b1", Type: entity.RuleTypeBonusFlat, Value: 100, Priority: 40},
		{ID: "b2", Type: entity.RuleTypeBonusFlat, Value: 200, Priority: 30},
		{ID: "p1", Type: entity.RuleTypePenalty, Value: 50, Priority: 20},
	}
	tctx := model.TripContext{Fare: 5000}

	eval := EvaluateRules(rules, tctx, 5000, 0.10)

	require.Len(t, eval.Bonuses, 3)
	assert.Equal(t, int64(100), eval.Bonuses[0].Amount)
	assert.Equal(t, int64(200), eval.Bonuses[1].Amount)
	assert.Equal(t, int64(-50), eval.Bonuses[2].Amount)

	var total int64
	for _, b := range eval.Bonuses {
		total += b.Amount
	}
	assert.Equal(t, int64(250), total)
}

func TestEvaluateRulesPenaltyValueIsAlwaysDebited(t *testing.T) {
	// A penalty stored with a negative value must not flip into a credit.
	rules := []entity.EarningRule{
		{ID: "p", Type: entity.RuleTypePenalty, Value: -75, Priority: 10},
	}
	eval := EvaluateRules(rules, model.TripContext{Fare: 1000}, 1000, 0.10)

	require.Len(t, eval.Bonuses, 1)
	assert.Equal(t, int64(-75), eval.Bonuses[0].Amount)
}

func TestEvaluateRulesMultiplierRoundsPerRule(t *testing.T) {
	rules := []entity.EarningRule{
		{ID: "m", Type: entity.RuleTypeBonusMultiplier, Value: 0.05, Priority: 10},
	}
	eval := EvaluateRules(rules, model.TripContext{Fare: 3250}, 3250, 0.10)

	require.Len(t, eval.Bonuses, 1)
	// 3250 * 0.05 = 162.5 rounds half away from zero
	assert.Equal(t, int64(163), eval.Bonuses[0].Amount)
}

func TestEvaluateRulesDefaultRateFallback(t *testing.T) {
	eval := EvaluateRules(nil, model.TripContext{Fare: 5000}, 5000, 0.10)

	assert.Nil(t, eval.CommissionRule)
	assert.True(t, eval.UsedDefaultRate)
	assert.Equal(t, 0.10, eval.CommissionRate)
	assert.Equal(t, int64(500), eval.CommissionAmount)
}

func TestBuildTripContext(t *testing.T) {
	completed := time.Date(2026, 8, 22, 23, 15, 0, 0, time.UTC) // Saturday
	fare := int64(4000)
	trip := &entity.Trip{
		ID:            "trip-1",
		DriverID:      "driver-1",
		PickupAddress: "Rue Joffre, Akwa, Douala",
		DistanceKm:    6.3,
		PaymentMethod: "MOMO",
		FareFinal:     &fare,
		CompletedAt:   completed,
	}

	tctx := BuildTripContext(trip, fare)

	assert.Equal(t, 23, tctx.Hour)
	assert.Equal(t, 6, tctx.Weekday)
	assert.Equal(t, "Douala", tctx.City)
	assert.Equal(t, int64(4000), tctx.Fare)
	assert.Equal(t, 6.3, tctx.DistanceKm)
	assert.Equal(t, "MOMO", tctx.PaymentMethod)
	assert.Equal(t, "STANDARD", tctx.DriverTier)
}
