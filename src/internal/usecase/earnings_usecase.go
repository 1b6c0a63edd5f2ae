package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/gateway/messaging"
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/model/converter"
	"earnings-service/src/internal/repository"
	"earnings-service/src/pkg/databases/mysql"
	httpError "earnings-service/src/pkg/http-error"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

const TaskTypeSettleTrip = "trip:earnings:settle"

const fallbackCommissionRate = 0.10

// EarningsUseCase is the ledger core. ProcessTrip runs entirely inside the
// caller-supplied unit of work; it never opens or commits its own top-level
// transaction.
type EarningsUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	Config   *viper.Viper
	DB       mysql.DBInterface
	Rules    RuleSource
	Receipts repository.ReceiptStore
	Wallets  repository.WalletStore
	Ledger   repository.LedgerStore
	Awards   repository.AwardStore
	Trips    repository.TripStore
	Producer *messaging.EarningsProducer
}

func NewEarningsUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	db mysql.DBInterface,
	rules RuleSource,
	receipts repository.ReceiptStore,
	wallets repository.WalletStore,
	ledger repository.LedgerStore,
	awards repository.AwardStore,
	trips repository.TripStore,
	producer *messaging.EarningsProducer,
) *EarningsUseCase {
	return &EarningsUseCase{
		Log:      logger,
		Validate: validate,
		Config:   cfg,
		DB:       db,
		Rules:    rules,
		Receipts: receipts,
		Wallets:  wallets,
		Ledger:   ledger,
		Awards:   awards,
		Trips:    trips,
		Producer: producer,
	}
}

func (c *EarningsUseCase) defaultCommissionRate() float64 {
	if c.Config != nil {
		if rate := c.Config.GetFloat64("earnings.default_commission_rate"); rate > 0 {
			return rate
		}
	}
	return fallbackCommissionRate
}

// resolveGrossFare applies fareFinal ?? fareEstimate ?? 0. Fares arrive as
// integer XAF already.
func resolveGrossFare(trip *entity.Trip) int64 {
	if trip.FareFinal != nil {
		return *trip.FareFinal
	}
	if trip.FareEstimate != nil {
		return *trip.FareEstimate
	}
	return 0
}

// ProcessTrip posts the full earnings result of one completed trip: receipt,
// ledger rows in fixed order (TRIP_FARE, COMMISSION, BONUS_TRIP per rule,
// then quest rows), and atomic wallet increments. Every write goes through
// ex, the caller's open transaction; on error the caller must roll the whole
// unit of work back. Safe to retry indefinitely: the receipt's trip_id
// UNIQUE key makes a repeat call a no-op.
func (c *EarningsUseCase) ProcessTrip(ctx context.Context, ex mysql.Executor, trip *entity.Trip) (*model.ProcessTripResult, error) {
	if trip == nil || trip.ID == "" {
		return nil, errors.New("completed trip is required")
	}

	existing, err := c.Receipts.FindByTripID(ctx, ex, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup receipt for trip %s: %w", trip.ID, err)
	}
	if existing != nil {
		c.Log.Info("earnings-usecase", "trip already processed", "ProcessTrip", trip.ID)
		return &model.ProcessTripResult{AlreadyProcessed: true, Receipt: existing}, nil
	}

	grossFare := resolveGrossFare(trip)
	if grossFare <= 0 {
		c.Log.Info("earnings-usecase", "zero-fare trip, no financial trace", "ProcessTrip", trip.ID)
		return &model.ProcessTripResult{Skipped: true}, nil
	}

	wallet, err := c.Wallets.EnsureWallet(ctx, ex, trip.DriverID)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet for driver %s: %w", trip.DriverID, err)
	}

	rules, err := c.Rules.LoadActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules for trip %s: %w", trip.ID, err)
	}

	tctx := BuildTripContext(trip, grossFare)
	eval := EvaluateRules(rules, tctx, grossFare, c.defaultCommissionRate())
	if eval.UsedDefaultRate {
		c.Log.Error("earnings-usecase",
			fmt.Sprintf("no commission rule matched, default rate %.2f applied", eval.CommissionRate),
			"ProcessTrip", trip.ID)
	}

	var bonusTotal int64
	for _, b := range eval.Bonuses {
		bonusTotal += b.Amount
	}
	driverNet := grossFare - eval.CommissionAmount + bonusTotal

	receipt := c.buildReceipt(trip, grossFare, eval, bonusTotal, driverNet)
	if err := c.Receipts.Insert(ctx, ex, receipt); err != nil {
		if mysql.IsDuplicateEntry(err) {
			// Lost the race past the idempotency check; the winner's receipt
			// is the result.
			winner, lookupErr := c.Receipts.FindByTripID(ctx, ex, trip.ID)
			if lookupErr != nil {
				return nil, fmt.Errorf("re-read receipt after duplicate for trip %s: %w", trip.ID, lookupErr)
			}
			c.Log.Info("earnings-usecase", "concurrent caller already created receipt", "ProcessTrip", trip.ID)
			return &model.ProcessTripResult{AlreadyProcessed: true, Receipt: winner}, nil
		}
		return nil, fmt.Errorf("insert receipt for trip %s: %w", trip.ID, err)
	}

	// Fixed posting order: TRIP_FARE, COMMISSION, then one BONUS_TRIP per
	// matching rule. balance_after is carried in-memory, never re-queried.
	running := wallet.Balance
	var entries []entity.DriverWalletTransaction

	post := func(txnType string, amount int64, reference, description string, ruleID *string, meta entity.Metadata) error {
		if amount == 0 {
			return nil
		}
		running += amount
		txn := entity.DriverWalletTransaction{
			ID:           uuid.NewString(),
			DriverID:     trip.DriverID,
			WalletID:     wallet.ID,
			TripID:       &trip.ID,
			ReceiptID:    &receipt.ID,
			RuleID:       ruleID,
			Type:         txnType,
			Amount:       amount,
			BalanceAfter: running,
			Description:  description,
			Reference:    reference,
			Metadata:     meta,
			CreatedAt:    time.Now().UTC(),
		}
		if err := c.Ledger.Insert(ctx, ex, &txn); err != nil {
			return fmt.Errorf("post %s row for trip %s: %w", txnType, trip.ID, err)
		}
		entries = append(entries, txn)
		return nil
	}

	fareRef := fmt.Sprintf("%s:%s", entity.TxnTypeTripFare, trip.ID)
	if err := post(entity.TxnTypeTripFare, grossFare, fareRef, "Trip fare", nil, nil); err != nil {
		return nil, err
	}

	commissionEntity := "default"
	var commissionRuleID *string
	if eval.CommissionRule != nil {
		commissionEntity = eval.CommissionRule.ID
		commissionRuleID = &eval.CommissionRule.ID
	}
	commissionRef := fmt.Sprintf("%s:%s:%s", entity.TxnTypeCommission, commissionEntity, trip.ID)
	commissionMeta := entity.Metadata{
		"rate":         eval.CommissionRate,
		"default_rate": eval.UsedDefaultRate,
	}
	if err := post(entity.TxnTypeCommission, -eval.CommissionAmount, commissionRef, "Platform commission", commissionRuleID, commissionMeta); err != nil {
		return nil, err
	}

	for i := range eval.Bonuses {
		bonus := eval.Bonuses[i]
		bonusRef := fmt.Sprintf("%s:%s:%s", entity.TxnTypeBonusTrip, bonus.Rule.ID, trip.ID)
		if err := post(entity.TxnTypeBonusTrip, bonus.Amount, bonusRef, bonus.Rule.Name, &eval.Bonuses[i].Rule.ID, nil); err != nil {
			return nil, err
		}
	}

	if err := c.Wallets.ApplyTripTotals(ctx, ex, wallet.ID, driverNet, grossFare+bonusTotal, eval.CommissionAmount, bonusTotal); err != nil {
		return nil, fmt.Errorf("apply wallet totals for trip %s: %w", trip.ID, err)
	}

	processedAt := time.Now().UTC()
	if err := c.Receipts.MarkSettled(ctx, ex, receipt.ID, processedAt); err != nil {
		return nil, fmt.Errorf("settle receipt %s: %w", receipt.ID, err)
	}
	receipt.Status = entity.ReceiptStatusSettled
	receipt.ProcessedAt = &processedAt

	awards, questEntries := c.evaluateQuestBonuses(ctx, ex, trip, wallet, running)
	entries = append(entries, questEntries...)

	return &model.ProcessTripResult{
		Receipt:       receipt,
		WalletEntries: entries,
		QuestAwards:   awards,
	}, nil
}

func (c *EarningsUseCase) buildReceipt(trip *entity.Trip, grossFare int64, eval model.RuleEvaluation, bonusTotal, driverNet int64) *entity.TripReceipt {
	applied := entity.AppliedRuleList{}
	var commissionRuleID *string

	if eval.CommissionRule != nil {
		commissionRuleID = &eval.CommissionRule.ID
		applied = append(applied, entity.AppliedRule{
			RuleID: eval.CommissionRule.ID,
			Type:   eval.CommissionRule.Type,
			Name:   eval.CommissionRule.Name,
			Value:  eval.CommissionRule.Value,
		})
	} else {
		applied = append(applied, entity.AppliedRule{
			Type:        entity.RuleTypeCommissionPercent,
			Name:        "default commission rate",
			Value:       eval.CommissionRate * 100,
			DefaultRate: true,
		})
	}

	for _, bonus := range eval.Bonuses {
		amount := bonus.Amount
		applied = append(applied, entity.AppliedRule{
			RuleID:   bonus.Rule.ID,
			Type:     bonus.Rule.Type,
			Name:     bonus.Rule.Name,
			Value:    bonus.Rule.Value,
			BonusXAF: &amount,
		})
	}

	return &entity.TripReceipt{
		ID:               uuid.NewString(),
		TripID:           trip.ID,
		DriverID:         trip.DriverID,
		PassengerID:      trip.PassengerID,
		GrossFare:        grossFare,
		CommissionRate:   eval.CommissionRate,
		CommissionAmount: eval.CommissionAmount,
		BonusTotal:       bonusTotal,
		DriverNet:        driverNet,
		PaymentMethod:    trip.PaymentMethod,
		CommissionRuleID: commissionRuleID,
		AppliedRules:     applied,
		Status:           entity.ReceiptStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
}

// NewSettleTripTask builds the asynq task the trip-completion workflow
// enqueues after marking a trip COMPLETED.
func NewSettleTripTask(tripID string) (*asynq.Task, error) {
	payload, err := json.Marshal(model.SettleTripPayload{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSettleTrip, payload), nil
}

// HandleSettleTrip is the asynq handler: load the completed trip, run
// ProcessTrip inside one transaction, then publish events after commit.
// Returning an error makes asynq retry, which the receipt anchor makes safe.
func (c *EarningsUseCase) HandleSettleTrip(ctx context.Context, t *asynq.Task) error {
	var payload model.SettleTripPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		c.Log.Error("earnings-usecase", fmt.Sprintf("malformed settle payload: %v", err), "HandleSettleTrip", string(t.Payload()))
		return fmt.Errorf("unmarshal settle payload: %w", err)
	}

	db, err := c.DB.GetDB()
	if err != nil {
		return err
	}

	trip, err := c.Trips.FindCompleted(ctx, db, payload.TripID)
	if err != nil {
		c.Log.Error("earnings-usecase", fmt.Sprintf("completed trip not found: %v", err), "HandleSettleTrip", payload.TripID)
		return fmt.Errorf("find completed trip %s: %w", payload.TripID, err)
	}

	var result *model.ProcessTripResult
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		result, txErr = c.ProcessTrip(ctx, tx, trip)
		return txErr
	})
	if err != nil {
		c.Log.Error("earnings-usecase", fmt.Sprintf("trip settlement rolled back: %v", err), "HandleSettleTrip", payload.TripID)
		return err
	}

	if !result.AlreadyProcessed && !result.Skipped {
		c.publishSettled(result)
	}
	return nil
}

// SettleTrip is the enqueue side used by the internal HTTP trigger.
func (c *EarningsUseCase) SettleTrip(ctx context.Context, request *model.SettleTripRequest, client *asynq.Client) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("earnings-usecase", err.Error(), "SettleTrip", utils.ConvertString(request))
		return result
	}

	task, err := NewSettleTripTask(request.TripID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to build settle task: %v", err)
		result.Error = errObj
		c.Log.Error("earnings-usecase", err.Error(), "SettleTrip", request.TripID)
		return result
	}

	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(10)); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to enqueue settle task: %v", err)
		result.Error = errObj
		c.Log.Error("earnings-usecase", err.Error(), "SettleTrip", request.TripID)
		return result
	}

	c.Log.Info("earnings-usecase", "settle task enqueued", "SettleTrip", request.TripID)
	result.Data = map[string]string{"tripId": request.TripID, "status": "queued"}
	return result
}

// publishSettled emits post-commit events. Best effort: a publish failure
// never undoes a committed settlement.
func (c *EarningsUseCase) publishSettled(result *model.ProcessTripResult) {
	if c.Producer == nil || result.Receipt == nil {
		return
	}

	event := converter.ReceiptToSettledEvent(result.Receipt)
	if err := c.Producer.SendEarningsSettled(event); err != nil {
		c.Log.Error("earnings-usecase", fmt.Sprintf("failed to publish earnings-settled event: %v", err), "publishSettled", result.Receipt.TripID)
	}

	for i := range result.QuestAwards {
		award := result.QuestAwards[i]
		if err := c.Producer.SendQuestAward(converter.AwardToEvent(&award)); err != nil {
			c.Log.Error("earnings-usecase", fmt.Sprintf("failed to publish quest-award event: %v", err), "publishSettled", award.ID)
		}
	}
}
