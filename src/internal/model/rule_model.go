package model

import "earnings-service/src/internal/entity"

type CreateRuleRequest struct {
	Name       string                `json:"name" validate:"required,max=150"`
	Type       string                `json:"type" validate:"required,oneof=COMMISSION_PERCENT BONUS_FLAT BONUS_MULTIPLIER PENALTY"`
	Value      float64               `json:"value" validate:"required"`
	Conditions entity.RuleConditions `json:"conditions"`
	Priority   int                   `json:"priority"`
	ValidFrom  *string               `json:"validFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo    *string               `json:"validTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateRuleRequest struct {
	ID         string                `json:"-" validate:"required,max=100"`
	Name       string                `json:"name" validate:"required,max=150"`
	Value      float64               `json:"value" validate:"required"`
	Conditions entity.RuleConditions `json:"conditions"`
	Priority   int                   `json:"priority"`
	ValidFrom  *string               `json:"validFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo    *string               `json:"validTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type DeactivateRuleRequest struct {
	ID string `json:"-" validate:"required,max=100"`
}

type CreateProgramRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Type        string  `json:"type" validate:"required,oneof=DAILY_TRIPS WEEKLY_TRIPS MONTHLY_TRIPS LIFETIME_TRIPS DAILY_EARNINGS WEEKLY_EARNINGS MONTHLY_EARNINGS"`
	Period      string  `json:"period" validate:"required,oneof=DAILY WEEKLY MONTHLY LIFETIME"`
	TargetValue int64   `json:"targetValue" validate:"required,gt=0"`
	BonusAmount int64   `json:"bonusAmount" validate:"required,gt=0"`
	ValidFrom   *string `json:"validFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo     *string `json:"validTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProgramRequest struct {
	ID          string  `json:"-" validate:"required,max=100"`
	Name        string  `json:"name" validate:"required,max=150"`
	TargetValue int64   `json:"targetValue" validate:"required,gt=0"`
	BonusAmount int64   `json:"bonusAmount" validate:"required,gt=0"`
	ValidFrom   *string `json:"validFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo     *string `json:"validTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type DeactivateProgramRequest struct {
	ID string `json:"-" validate:"required,max=100"`
}
