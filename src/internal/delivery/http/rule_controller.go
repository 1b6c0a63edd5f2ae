package http

import (
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/usecase"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RuleController struct {
	Log     log.Log
	UseCase *usecase.RuleAdminUseCase
}

func NewRuleController(useCase *usecase.RuleAdminUseCase, logger log.Log) *RuleController {
	return &RuleController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RuleController) CreateRule(ctx *fiber.Ctx) error {
	request := new(model.CreateRuleRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RuleController.CreateRule", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CreateRule(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rule Created", fiber.StatusCreated, ctx)
}

func (c *RuleController) UpdateRule(ctx *fiber.Ctx) error {
	request := new(model.UpdateRuleRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RuleController.UpdateRule", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ID = ctx.Params("id")
	result := c.UseCase.UpdateRule(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rule Updated", fiber.StatusOK, ctx)
}

func (c *RuleController) DeactivateRule(ctx *fiber.Ctx) error {
	request := &model.DeactivateRuleRequest{
		ID: ctx.Params("id"),
	}
	result := c.UseCase.DeactivateRule(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rule Deactivated", fiber.StatusOK, ctx)
}

func (c *RuleController) CreateProgram(ctx *fiber.Ctx) error {
	request := new(model.CreateProgramRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RuleController.CreateProgram", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CreateProgram(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Program Created", fiber.StatusCreated, ctx)
}

func (c *RuleController) UpdateProgram(ctx *fiber.Ctx) error {
	request := new(model.UpdateProgramRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RuleController.UpdateProgram", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ID = ctx.Params("id")
	result := c.UseCase.UpdateProgram(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Program Updated", fiber.StatusOK, ctx)
}

func (c *RuleController) DeactivateProgram(ctx *fiber.Ctx) error {
	request := &model.DeactivateProgramRequest{
		ID: ctx.Params("id"),
	}
	result := c.UseCase.DeactivateProgram(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Program Deactivated", fiber.StatusOK, ctx)
}
