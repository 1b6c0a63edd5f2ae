package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
	"earnings-service/src/pkg/log"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes over the store interfaces. Duplicate-key races are
// simulated with the same MySQL 1062 error the real driver returns.

var errDuplicate = &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}

type fakeRuleSource struct {
	rules    []entity.EarningRule
	programs []entity.BonusProgram
}

func (f *fakeRuleSource) LoadActiveRules(ctx context.Context) ([]entity.EarningRule, error) {
	return f.rules, nil
}

func (f *fakeRuleSource) LoadActivePrograms(ctx context.Context) ([]entity.BonusProgram, error) {
	return f.programs, nil
}

func (f *fakeRuleSource) Invalidate(ctx context.Context) error { return nil }

type fakeReceiptStore struct {
	byTrip map[string]*entity.TripReceipt

	// when set, the next Insert loses a simulated race: the winner's receipt
	// appears in the store and the insert fails with a duplicate error
	raceWinner *entity.TripReceipt
}

func newFakeReceiptStore() *fakeReceiptStore {
	return &fakeReceiptStore{byTrip: map[string]*entity.TripReceipt{}}
}

func (f *fakeReceiptStore) FindByTripID(ctx context.Context, ex mysql.Executor, tripID string) (*entity.TripReceipt, error) {
	return f.byTrip[tripID], nil
}

func (f *fakeReceiptStore) Insert(ctx context.Context, ex mysql.Executor, receipt *entity.TripReceipt) error {
	if f.raceWinner != nil {
		f.byTrip[f.raceWinner.TripID] = f.raceWinner
		f.raceWinner = nil
		return errDuplicate
	}
	if _, ok := f.byTrip[receipt.TripID]; ok {
		return errDuplicate
	}
	f.byTrip[receipt.TripID] = receipt
	return nil
}

func (f *fakeReceiptStore) MarkSettled(ctx context.Context, ex mysql.Executor, receiptID string, processedAt time.Time) error {
	for _, receipt := range f.byTrip {
		if receipt.ID == receiptID {
			receipt.Status = entity.ReceiptStatusSettled
			receipt.ProcessedAt = &processedAt
			return nil
		}
	}
	return fmt.Errorf("receipt %s not found", receiptID)
}

type fakeWalletStore struct {
	byDriver map[string]*entity.DriverWallet
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{byDriver: map[string]*entity.DriverWallet{}}
}

func (f *fakeWalletStore) EnsureWallet(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error) {
	if wallet, ok := f.byDriver[driverID]; ok {
		return wallet, nil
	}
	wallet := &entity.DriverWallet{
		ID:       uuid.NewString(),
		DriverID: driverID,
		Status:   entity.WalletStatusActive,
		Currency: "XAF",
	}
	f.byDriver[driverID] = wallet
	return wallet, nil
}

func (f *fakeWalletStore) FindByDriverID(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error) {
	return f.byDriver[driverID], nil
}

func (f *fakeWalletStore) walletByID(walletID string) *entity.DriverWallet {
	for _, wallet := range f.byDriver {
		if wallet.ID == walletID {
			return wallet
		}
	}
	return nil
}

func (f *fakeWalletStore) ApplyTripTotals(ctx context.Context, ex mysql.Executor, walletID string, driverNet, earnedDelta, commissionDelta, bonusDelta int64) error {
	wallet := f.walletByID(walletID)
	if wallet == nil {
		return fmt.Errorf("wallet %s not found", walletID)
	}
	wallet.Balance += driverNet
	wallet.TotalEarned += earnedDelta
	wallet.TotalCommission += commissionDelta
	wallet.TotalBonuses += bonusDelta
	return nil
}

func (f *fakeWalletStore) ApplyQuestBonus(ctx context.Context, ex mysql.Executor, walletID string, amount int64) error {
	wallet := f.walletByID(walletID)
	if wallet == nil {
		return fmt.Errorf("wallet %s not found", walletID)
	}
	wallet.Balance += amount
	wallet.TotalEarned += amount
	wallet.TotalBonuses += amount
	return nil
}

type fakeLedgerStore struct {
	rows []entity.DriverWalletTransaction
}

func (f *fakeLedgerStore) Insert(ctx context.Context, ex mysql.Executor, txn *entity.DriverWalletTransaction) error {
	for _, row := range f.rows {
		if row.Reference == txn.Reference {
			return errDuplicate
		}
	}
	f.rows = append(f.rows, *txn)
	return nil
}

func (f *fakeLedgerStore) ListByDriver(ctx context.Context, ex mysql.Executor, driverID string, limit, offset int) ([]entity.DriverWalletTransaction, error) {
	return f.rows, nil
}

func (f *fakeLedgerStore) SumAmounts(ctx context.Context, ex mysql.Executor, driverID string) (int64, error) {
	var sum int64
	for _, row := range f.rows {
		if row.DriverID == driverID {
			sum += row.Amount
		}
	}
	return sum, nil
}

func (f *fakeLedgerStore) EarningsSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, int64, error) {
	var net, trips int64
	for _, row := range f.rows {
		if row.DriverID != driverID || row.CreatedAt.Before(since) {
			continue
		}
		net += row.Amount
		if row.Type == entity.TxnTypeTripFare {
			trips++
		}
	}
	return net, trips, nil
}

type fakeAwardStore struct {
	byKey map[string]*entity.BonusAward
}

func newFakeAwardStore() *fakeAwardStore {
	return &fakeAwardStore{byKey: map[string]*entity.BonusAward{}}
}

func awardKey(driverID, programID, periodKey string) string {
	return driverID + "|" + programID + "|" + periodKey
}

func (f *fakeAwardStore) Find(ctx context.Context, ex mysql.Executor, driverID, programID, periodKey string) (*entity.BonusAward, error) {
	return f.byKey[awardKey(driverID, programID, periodKey)], nil
}

func (f *fakeAwardStore) Insert(ctx context.Context, ex mysql.Executor, award *entity.BonusAward) error {
	key := awardKey(award.DriverID, award.ProgramID, award.PeriodKey)
	if _, ok := f.byKey[key]; ok {
		return errDuplicate
	}
	f.byKey[key] = award
	return nil
}

type fakeTripStore struct {
	byID      map[string]*entity.Trip
	tripCount int64
	fareSum   int64
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{byID: map[string]*entity.Trip{}}
}

func (f *fakeTripStore) FindCompleted(ctx context.Context, ex mysql.Executor, tripID string) (*entity.Trip, error) {
	trip, ok := f.byID[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %s not found", tripID)
	}
	return trip, nil
}

func (f *fakeTripStore) CountCompletedSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error) {
	return f.tripCount, nil
}

func (f *fakeTripStore) SumGrossFaresSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error) {
	return f.fareSum, nil
}

type earningsFixture struct {
	useCase  *EarningsUseCase
	rules    *fakeRuleSource
	receipts *fakeReceiptStore
	wallets  *fakeWalletStore
	ledger   *fakeLedgerStore
	awards   *fakeAwardStore
	trips    *fakeTripStore
}

func newEarningsFixture() *earningsFixture {
	f := &earningsFixture{
		rules:    &fakeRuleSource{},
		receipts: newFakeReceiptStore(),
		wallets:  newFakeWalletStore(),
		ledger:   &fakeLedgerStore{},
		awards:   newFakeAwardStore(),
		trips:    newFakeTripStore(),
	}
	f.useCase = &EarningsUseCase{
		Log:      log.Log{},
		Rules:    f.rules,
		Receipts: f.receipts,
		Wallets:  f.wallets,
		Ledger:   f.ledger,
		Awards:   f.awards,
		Trips:    f.trips,
	}
	return f
}

func completedTrip(tripID, driverID string, fare int64) *entity.Trip {
	return &entity.Trip{
		ID:            tripID,
		DriverID:      driverID,
		PassengerID:   "passenger-1",
		PickupAddress: "Rue Joffre, Akwa, Douala",
		DistanceKm:    5.5,
		PaymentMethod: "CASH",
		FareFinal:     &fare,
		Status:        "COMPLETED",
		CompletedAt:   time.Date(2026, 8, 22, 14, 0, 0, 0, time.UTC),
	}
}

func TestProcessTripPostsFullEarningsResult(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "rule-commission", Name: "Standard commission", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
		{ID: "rule-bonus", Name: "Weekend bonus", Type: entity.RuleTypeBonusFlat, Value: 200, Priority: 40,
			Conditions: entity.RuleConditions{DaysOfWeek: []int{0, 6}}},
	}
	trip := completedTrip("trip-1", "driver-1", 5000)

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	require.NotNil(t, result.Receipt)
	assert.False(t, result.AlreadyProcessed)
	assert.False(t, result.Skipped)

	receipt := result.Receipt
	assert.Equal(t, int64(5000), receipt.GrossFare)
	assert.Equal(t, 0.10, receipt.CommissionRate)
	assert.Equal(t, int64(500), receipt.CommissionAmount)
	assert.Equal(t, int64(200), receipt.BonusTotal)
	assert.Equal(t, int64(4700), receipt.DriverNet)
	assert.Equal(t, entity.ReceiptStatusSettled, receipt.Status)
	require.NotNil(t, receipt.CommissionRuleID)
	assert.Equal(t, "rule-commission", *receipt.CommissionRuleID)
	require.Len(t, receipt.AppliedRules, 2)
	assert.False(t, receipt.AppliedRules[0].DefaultRate)

	require.Len(t, f.ledger.rows, 3)
	assert.Equal(t, entity.TxnTypeTripFare, f.ledger.rows[0].Type)
	assert.Equal(t, int64(5000), f.ledger.rows[0].Amount)
	assert.Equal(t, entity.TxnTypeCommission, f.ledger.rows[1].Type)
	assert.Equal(t, int64(-500), f.ledger.rows[1].Amount)
	assert.Equal(t, entity.TxnTypeBonusTrip, f.ledger.rows[2].Type)
	assert.Equal(t, int64(200), f.ledger.rows[2].Amount)

	wallet := f.wallets.byDriver["driver-1"]
	assert.Equal(t, int64(4700), wallet.Balance)
	assert.Equal(t, int64(5200), wallet.TotalEarned)
	assert.Equal(t, int64(500), wallet.TotalCommission)
	assert.Equal(t, int64(200), wallet.TotalBonuses)
}

func TestProcessTripBalanceAfterChain(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "c", Name: "Commission", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
		{ID: "b", Name: "Flat bonus", Type: entity.RuleTypeBonusFlat, Value: 200, Priority: 40},
	}
	// pre-existing balance carries into the chain
	f.wallets.byDriver["driver-1"] = &entity.DriverWallet{
		ID: "wallet-1", DriverID: "driver-1", Balance: 1000,
		Status: entity.WalletStatusActive, Currency: "XAF",
	}
	trip := completedTrip("trip-1", "driver-1", 5000)

	_, err := f.useCase.ProcessTrip(context.Background(), nil, trip)
	require.NoError(t, err)

	require.Len(t, f.ledger.rows, 3)
	assert.Equal(t, int64(6000), f.ledger.rows[0].BalanceAfter)
	assert.Equal(t, int64(5500), f.ledger.rows[1].BalanceAfter)
	assert.Equal(t, int64(5700), f.ledger.rows[2].BalanceAfter)
	assert.Equal(t, int64(5700), f.wallets.byDriver["driver-1"].Balance)
}

func TestProcessTripBalanceEqualsSumOfLedgerAmounts(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "c", Name: "Commission", Type: entity.RuleTypeCommissionPercent, Value: 15, Priority: 50},
		{ID: "m", Name: "Distance bonus", Type: entity.RuleTypeBonusMultiplier, Value: 0.05, Priority: 40},
		{ID: "p", Name: "Late start penalty", Type: entity.RuleTypePenalty, Value: 50, Priority: 30},
	}

	for i, fare := range []int64{3250, 5000, 1200} {
		trip := completedTrip(fmt.Sprintf("trip-%d", i), "driver-1", fare)
		_, err := f.useCase.ProcessTrip(context.Background(), nil, trip)
		require.NoError(t, err)
	}

	sum, err := f.ledger.SumAmounts(context.Background(), nil, "driver-1")
	require.NoError(t, err)
	assert.Equal(t, f.wallets.byDriver["driver-1"].Balance, sum)
}

func TestProcessTripIsIdempotent(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "c", Name: "Commission", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
	}
	trip := completedTrip("trip-1", "driver-1", 5000)

	first, err := f.useCase.ProcessTrip(context.Background(), nil, trip)
	require.NoError(t, err)
	require.False(t, first.AlreadyProcessed)

	second, err := f.useCase.ProcessTrip(context.Background(), nil, trip)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	require.NotNil(t, second.Receipt)
	assert.Equal(t, first.Receipt.ID, second.Receipt.ID)

	// no second batch of postings, wallet unchanged
	assert.Len(t, f.ledger.rows, 2)
	assert.Equal(t, int64(4500), f.wallets.byDriver["driver-1"].Balance)
}

func TestProcessTripLosesReceiptRace(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "c", Name: "Commission", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
	}
	winner := &entity.TripReceipt{ID: "winner-receipt", TripID: "trip-1", DriverID: "driver-1"}
	f.receipts.raceWinner = winner
	trip := completedTrip("trip-1", "driver-1", 5000)

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, "winner-receipt", result.Receipt.ID)
	// the loser posts nothing
	assert.Empty(t, f.ledger.rows)
}

func TestProcessTripSkipsZeroFare(t *testing.T) {
	f := newEarningsFixture()
	trip := completedTrip("trip-1", "driver-1", 0)
	trip.FareFinal = nil
	trip.FareEstimate = nil

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Nil(t, result.Receipt)
	assert.Empty(t, f.ledger.rows)
	assert.Empty(t, f.receipts.byTrip)
	assert.Empty(t, f.wallets.byDriver)
}

func TestProcessTripFallsBackToFareEstimate(t *testing.T) {
	f := newEarningsFixture()
	trip := completedTrip("trip-1", "driver-1", 0)
	trip.FareFinal = nil
	estimate := int64(3000)
	trip.FareEstimate = &estimate

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, int64(3000), result.Receipt.GrossFare)
}

func TestProcessTripDefaultCommissionRate(t *testing.T) {
	f := newEarningsFixture()
	trip := completedTrip("trip-1", "driver-1", 5000)

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	receipt := result.Receipt
	assert.Equal(t, 0.10, receipt.CommissionRate)
	assert.Equal(t, int64(500), receipt.CommissionAmount)
	assert.Nil(t, receipt.CommissionRuleID)
	require.Len(t, receipt.AppliedRules, 1)
	assert.True(t, receipt.AppliedRules[0].DefaultRate)

	// the commission row references the default marker, not a rule id
	require.Len(t, f.ledger.rows, 2)
	assert.True(t, strings.HasPrefix(f.ledger.rows[1].Reference, "COMMISSION:default:"))
	assert.Nil(t, f.ledger.rows[1].RuleID)
}

func TestProcessTripAwardsQuestOnTargetCross(t *testing.T) {
	f := newEarningsFixture()
	f.rules.rules = []entity.EarningRule{
		{ID: "c", Name: "Commission", Type: entity.RuleTypeCommissionPercent, Value: 10, Priority: 50},
	}
	f.rules.programs = []entity.BonusProgram{
		{ID: "quest-5", Name: "5 trips a day", Type: entity.ProgramTypeDailyTrips,
			Period: entity.PeriodDaily, TargetValue: 5, BonusAmount: 1000, IsActive: true},
	}
	f.trips.tripCount = 5
	trip := completedTrip("trip-5", "driver-1", 5000)

	result, err := f.useCase.ProcessTrip(context.Background(), nil, trip)

	require.NoError(t, err)
	require.Len(t, result.QuestAwards, 1)
	award := result.QuestAwards[0]
	assert.Equal(t, "quest-5", award.ProgramID)
	assert.Equal(t, "2026-08-22", award.PeriodKey)
	assert.Equal(t, int64(5), award.MetricAtAward)
	assert.Equal(t, "trip-5", award.TriggerTripID)

	require.Len(t, f.ledger.rows, 3)
	questRow := f.ledger.rows[2]
	assert.Equal(t, entity.TxnTypeBonusQuest, questRow.Type)
	assert.Equal(t, int64(1000), questRow.Amount)
	assert.Equal(t, "BONUS_QUEST:quest-5:driver-1:2026-08-22", questRow.Reference)
	// quest row continues the trip's running balance
	assert.Equal(t, int64(5500), questRow.BalanceAfter)

	wallet := f.wallets.byDriver["driver-1"]
	assert.Equal(t, int64(5500), wallet.Balance)
	assert.Equal(t, int64(1000), wallet.TotalBonuses)
}

func TestProcessTripQuestAwardedOncePerPeriod(t *testing.T) {
	f := newEarningsFixture()
	f.rules.programs = []entity.BonusProgram{
		{ID: "quest-5", Name: "5 trips a day", Type: entity.ProgramTypeDailyTrips,
			Period: entity.PeriodDaily, TargetValue: 5, BonusAmount: 1000, IsActive: true},
	}
	f.trips.tripCount = 5

	first, err := f.useCase.ProcessTrip(context.Background(), nil, completedTrip("trip-5", "driver-1", 5000))
	require.NoError(t, err)
	require.Len(t, first.QuestAwards, 1)

	// sixth trip the same day crosses an already-awarded target
	f.trips.tripCount = 6
	second, err := f.useCase.ProcessTrip(context.Background(), nil, completedTrip("trip-6", "driver-1", 5000))
	require.NoError(t, err)
	assert.Empty(t, second.QuestAwards)

	// a trip the next day opens a fresh period
	f.trips.tripCount = 5
	nextDay := completedTrip("trip-7", "driver-1", 5000)
	nextDay.CompletedAt = nextDay.CompletedAt.AddDate(0, 0, 1)
	third, err := f.useCase.ProcessTrip(context.Background(), nil, nextDay)
	require.NoError(t, err)
	require.Len(t, third.QuestAwards, 1)
	assert.Equal(t, "2026-08-23", third.QuestAwards[0].PeriodKey)
}

func TestProcessTripQuestBelowTarget(t *testing.T) {
	f := newEarningsFixture()
	f.rules.programs = []entity.BonusProgram{
		{ID: "quest-5", Name: "5 trips a day", Type: entity.ProgramTypeDailyTrips,
			Period: entity.PeriodDaily, TargetValue: 5, BonusAmount: 1000, IsActive: true},
	}
	f.trips.tripCount = 4

	result, err := f.useCase.ProcessTrip(context.Background(), nil, completedTrip("trip-4", "driver-1", 5000))

	require.NoError(t, err)
	assert.Empty(t, result.QuestAwards)
	require.Len(t, f.ledger.rows, 2)
}

func TestProcessTripEarningsQuestUsesFareSum(t *testing.T) {
	f := newEarningsFixture()
	f.rules.programs = []entity.BonusProgram{
		{ID: "quest-weekly", Name: "Weekly earnings milestone", Type: entity.ProgramTypeWeeklyEarnings,
			Period: entity.PeriodWeekly, TargetValue: 50000, BonusAmount: 2500, IsActive: true},
	}
	f.trips.fareSum = 52000

	result, err := f.useCase.ProcessTrip(context.Background(), nil, completedTrip("trip-1", "driver-1", 5000))

	require.NoError(t, err)
	require.Len(t, result.QuestAwards, 1)
	assert.Equal(t, "2026-W34", result.QuestAwards[0].PeriodKey)
	assert.Equal(t, int64(52000), result.QuestAwards[0].MetricAtAward)
}

func TestProcessTripRequiresTrip(t *testing.T) {
	f := newEarningsFixture()

	_, err := f.useCase.ProcessTrip(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = f.useCase.ProcessTrip(context.Background(), nil, &entity.Trip{})
	assert.Error(t, err)
}
