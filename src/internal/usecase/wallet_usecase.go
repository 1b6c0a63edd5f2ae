package usecase

import (
	"context"
	"fmt"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/repository"
	"earnings-service/src/pkg/databases/mysql"
	httpError "earnings-service/src/pkg/http-error"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// WalletUseCase is the read-only query surface. It never mutates balances;
// corrections are ADJUSTMENT rows posted elsewhere.
type WalletUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	DB       mysql.DBInterface
	Wallets  repository.WalletStore
	Ledger   repository.LedgerStore
	Receipts repository.ReceiptStore
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	wallets repository.WalletStore,
	ledger repository.LedgerStore,
	receipts repository.ReceiptStore,
) *WalletUseCase {
	return &WalletUseCase{
		Log:      logger,
		Validate: validate,
		DB:       db,
		Wallets:  wallets,
		Ledger:   ledger,
		Receipts: receipts,
	}
}

func (c *WalletUseCase) GetSummary(ctx context.Context, request *model.WalletSummaryRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "GetSummary", utils.ConvertString(request))
		return result
	}

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("wallet-usecase", err.Error(), "GetSummary", "")
		return result
	}

	wallet, err := c.Wallets.FindByDriverID(ctx, db, request.DriverID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("wallet for driver %s not found", request.DriverID)
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "GetSummary", request.DriverID)
		return result
	}

	now := time.Now().UTC()
	response := &model.WalletSummaryResponse{
		WalletID:        wallet.ID,
		DriverID:        wallet.DriverID,
		Balance:         wallet.Balance,
		Currency:        wallet.Currency,
		Status:          wallet.Status,
		TotalEarned:     wallet.TotalEarned,
		TotalCommission: wallet.TotalCommission,
		TotalBonuses:    wallet.TotalBonuses,
		TotalPayouts:    wallet.TotalPayouts,
		AsOf:            now,
	}

	windows := []struct {
		period string
		dest   *model.PeriodEarnings
	}{
		{entity.PeriodDaily, &response.Today},
		{entity.PeriodWeekly, &response.ThisWeek},
		{entity.PeriodMonthly, &response.ThisMonth},
	}
	for _, w := range windows {
		net, trips, err := c.Ledger.EarningsSince(ctx, db, request.DriverID, PeriodStart(w.period, now))
		if err != nil {
			result.Error = httpError.NewInternalServerError()
			c.Log.Error("wallet-usecase", fmt.Sprintf("earnings window query failed: %v", err), "GetSummary", w.period)
			return result
		}
		w.dest.NetEarnings = net
		w.dest.TripCount = trips
	}

	result.Data = response
	return result
}

func (c *WalletUseCase) GetTransactions(ctx context.Context, request *model.WalletTransactionsRequest) utils.Result {
	var result utils.Result

	if request.Limit == 0 {
		request.Limit = 20
	}
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "GetTransactions", utils.ConvertString(request))
		return result
	}

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("wallet-usecase", err.Error(), "GetTransactions", "")
		return result
	}

	txns, err := c.Ledger.ListByDriver(ctx, db, request.DriverID, request.Limit, request.Offset)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("wallet-usecase", fmt.Sprintf("ledger list failed: %v", err), "GetTransactions", request.DriverID)
		return result
	}

	result.Data = txns
	return result
}

func (c *WalletUseCase) GetReceipt(ctx context.Context, request *model.ReceiptRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "GetReceipt", utils.ConvertString(request))
		return result
	}

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("wallet-usecase", err.Error(), "GetReceipt", "")
		return result
	}

	receipt, err := c.Receipts.FindByTripID(ctx, db, request.TripID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("wallet-usecase", fmt.Sprintf("receipt lookup failed: %v", err), "GetReceipt", request.TripID)
		return result
	}
	if receipt == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no receipt for trip %s", request.TripID)
		result.Error = errObj
		return result
	}

	result.Data = receipt
	return result
}
