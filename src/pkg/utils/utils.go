package utils

import (
	"encoding/json"
	"strconv"

	httpError "earnings-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is the standard usecase return envelope.
type Result struct {
	Data  interface{}
	Error interface{}
}

type baseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(baseResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseError(err interface{}, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(baseResponse{
			Success: false,
			Message: commonErr.Message,
		})
	}
	if e, ok := err.(error); ok {
		return ctx.Status(fiber.StatusInternalServerError).JSON(baseResponse{
			Success: false,
			Message: e.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(baseResponse{
		Success: false,
		Message: "internal server error",
	})
}

// ConvertString marshals any value to a JSON string for log metadata.
func ConvertString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func ConvertInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, _ := strconv.Atoi(val)
		return n
	default:
		return 0
	}
}
