package usecase

import (
	"context"
	"fmt"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/model"
	"earnings-service/src/internal/repository"
	httpError "earnings-service/src/pkg/http-error"
	"earnings-service/src/pkg/log"
	"earnings-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RuleAdminUseCase is the operator write path for rules and programs. Every
// mutation invalidates the rule cache synchronously so edits are visible
// without waiting out the TTL.
type RuleAdminUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	Rules    repository.RuleDataStore
	Cache    RuleSource
}

func NewRuleAdminUseCase(logger log.Log, validate *validator.Validate, rules repository.RuleDataStore, cache RuleSource) *RuleAdminUseCase {
	return &RuleAdminUseCase{
		Log:      logger,
		Validate: validate,
		Rules:    rules,
		Cache:    cache,
	}
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", *s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *RuleAdminUseCase) badRequest(scope string, request interface{}, err error) httpError.CommonError {
	errObj := httpError.NewBadRequest()
	errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
	c.Log.Error("rule-admin-usecase", err.Error(), scope, utils.ConvertString(request))
	return errObj
}

func (c *RuleAdminUseCase) CreateRule(ctx context.Context, request *model.CreateRuleRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("CreateRule", request, err)
		return result
	}

	validFrom, err := parseDate(request.ValidFrom)
	if err != nil {
		result.Error = c.badRequest("CreateRule", request, err)
		return result
	}
	validTo, err := parseDate(request.ValidTo)
	if err != nil {
		result.Error = c.badRequest("CreateRule", request, err)
		return result
	}

	now := time.Now().UTC()
	rule := &entity.EarningRule{
		ID:         uuid.NewString(),
		Name:       request.Name,
		Type:       request.Type,
		Value:      request.Value,
		Conditions: request.Conditions,
		Priority:   request.Priority,
		IsActive:   true,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := c.Rules.InsertRule(ctx, rule); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to create rule: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "CreateRule", utils.ConvertString(request))
		return result
	}

	c.invalidate(ctx, "CreateRule", rule.ID)
	result.Data = rule
	return result
}

func (c *RuleAdminUseCase) UpdateRule(ctx context.Context, request *model.UpdateRuleRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("UpdateRule", request, err)
		return result
	}

	rule, err := c.Rules.FindRule(ctx, request.ID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("rule-admin-usecase", err.Error(), "UpdateRule", request.ID)
		return result
	}
	if rule == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("rule %s not found", request.ID)
		result.Error = errObj
		return result
	}

	validFrom, err := parseDate(request.ValidFrom)
	if err != nil {
		result.Error = c.badRequest("UpdateRule", request, err)
		return result
	}
	validTo, err := parseDate(request.ValidTo)
	if err != nil {
		result.Error = c.badRequest("UpdateRule", request, err)
		return result
	}

	rule.Name = request.Name
	rule.Value = request.Value
	rule.Conditions = request.Conditions
	rule.Priority = request.Priority
	rule.ValidFrom = validFrom
	rule.ValidTo = validTo
	if err := c.Rules.UpdateRule(ctx, rule); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to update rule: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "UpdateRule", request.ID)
		return result
	}

	c.invalidate(ctx, "UpdateRule", rule.ID)
	result.Data = rule
	return result
}

func (c *RuleAdminUseCase) DeactivateRule(ctx context.Context, request *model.DeactivateRuleRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("DeactivateRule", request, err)
		return result
	}

	if err := c.Rules.DeactivateRule(ctx, request.ID); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to deactivate rule: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "DeactivateRule", request.ID)
		return result
	}

	c.invalidate(ctx, "DeactivateRule", request.ID)
	result.Data = map[string]string{"id": request.ID, "status": "deactivated"}
	return result
}

func (c *RuleAdminUseCase) CreateProgram(ctx context.Context, request *model.CreateProgramRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("CreateProgram", request, err)
		return result
	}

	validFrom, err := parseDate(request.ValidFrom)
	if err != nil {
		result.Error = c.badRequest("CreateProgram", request, err)
		return result
	}
	validTo, err := parseDate(request.ValidTo)
	if err != nil {
		result.Error = c.badRequest("CreateProgram", request, err)
		return result
	}

	now := time.Now().UTC()
	program := &entity.BonusProgram{
		ID:          uuid.NewString(),
		Name:        request.Name,
		Type:        request.Type,
		Period:      request.Period,
		TargetValue: request.TargetValue,
		BonusAmount: request.BonusAmount,
		IsActive:    true,
		ValidFrom:   validFrom,
		ValidTo:     validTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Rules.InsertProgram(ctx, program); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to create program: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "CreateProgram", utils.ConvertString(request))
		return result
	}

	c.invalidate(ctx, "CreateProgram", program.ID)
	result.Data = program
	return result
}

func (c *RuleAdminUseCase) UpdateProgram(ctx context.Context, request *model.UpdateProgramRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("UpdateProgram", request, err)
		return result
	}

	program, err := c.Rules.FindProgram(ctx, request.ID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("rule-admin-usecase", err.Error(), "UpdateProgram", request.ID)
		return result
	}
	if program == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("program %s not found", request.ID)
		result.Error = errObj
		return result
	}

	validFrom, err := parseDate(request.ValidFrom)
	if err != nil {
		result.Error = c.badRequest("UpdateProgram", request, err)
		return result
	}
	validTo, err := parseDate(request.ValidTo)
	if err != nil {
		result.Error = c.badRequest("UpdateProgram", request, err)
		return result
	}

	program.Name = request.Name
	program.TargetValue = request.TargetValue
	program.BonusAmount = request.BonusAmount
	program.ValidFrom = validFrom
	program.ValidTo = validTo
	if err := c.Rules.UpdateProgram(ctx, program); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to update program: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "UpdateProgram", request.ID)
		return result
	}

	c.invalidate(ctx, "UpdateProgram", program.ID)
	result.Data = program
	return result
}

func (c *RuleAdminUseCase) DeactivateProgram(ctx context.Context, request *model.DeactivateProgramRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = c.badRequest("DeactivateProgram", request, err)
		return result
	}

	if err := c.Rules.DeactivateProgram(ctx, request.ID); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to deactivate program: %v", err)
		result.Error = errObj
		c.Log.Error("rule-admin-usecase", err.Error(), "DeactivateProgram", request.ID)
		return result
	}

	c.invalidate(ctx, "DeactivateProgram", request.ID)
	result.Data = map[string]string{"id": request.ID, "status": "deactivated"}
	return result
}

func (c *RuleAdminUseCase) invalidate(ctx context.Context, scope, id string) {
	if err := c.Cache.Invalidate(ctx); err != nil {
		// cache self-heals within one TTL window; the write already landed
		c.Log.Error("rule-admin-usecase", fmt.Sprintf("cache invalidation failed: %v", err), scope, id)
	}
}
