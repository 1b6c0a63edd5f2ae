package http

import (
	"earnings-service/src/internal/delivery/http/middleware"
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/usecase"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletController struct {
	Log     log.Log
	UseCase *usecase.WalletUseCase
}

func NewWalletController(useCase *usecase.WalletUseCase, logger log.Log) *WalletController {
	return &WalletController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *WalletController) GetSummary(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.WalletSummaryRequest{
		DriverID: auth.Metadata.UserID,
	}
	result := c.UseCase.GetSummary(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Summary", fiber.StatusOK, ctx)
}

func (c *WalletController) GetTransactions(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.WalletTransactionsRequest{
		DriverID: auth.Metadata.UserID,
		Limit:    ctx.QueryInt("limit", 20),
		Offset:   ctx.QueryInt("offset", 0),
	}
	result := c.UseCase.GetTransactions(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Transactions", fiber.StatusOK, ctx)
}

func (c *WalletController) GetReceipt(ctx *fiber.Ctx) error {
	request := &model.ReceiptRequest{
		TripID: ctx.Params("tripId"),
	}
	result := c.UseCase.GetReceipt(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Receipt", fiber.StatusOK, ctx)
}
