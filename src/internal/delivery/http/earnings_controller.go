package http

import (
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/usecase"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

// EarningsController exposes the internal settlement trigger used by the
// trip-completion workflow. The actual posting happens in the asynq worker.
type EarningsController struct {
	Log         log.Log
	UseCase     *usecase.EarningsUseCase
	AsynqClient *asynq.Client
}

func NewEarningsController(useCase *usecase.EarningsUseCase, asynqClient *asynq.Client, logger log.Log) *EarningsController {
	return &EarningsController{
		Log:         logger,
		UseCase:     useCase,
		AsynqClient: asynqClient,
	}
}

func (c *EarningsController) SettleTrip(ctx *fiber.Ctx) error {
	request := &model.SettleTripRequest{
		TripID: ctx.Params("tripId"),
	}
	result := c.UseCase.SettleTrip(ctx.Context(), request, c.AsynqClient)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Trip Settlement Queued", fiber.StatusAccepted, ctx)
}
