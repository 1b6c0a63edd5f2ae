package httpError

import "net/http"

// CommonError is the error shape carried inside utils.Result and rendered by
// the HTTP layer.
type CommonError struct {
	Code         int         `json:"code"`
	ResponseCode int         `json:"responseCode,omitempty"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
}

func (e CommonError) Error() string {
	return e.Message
}

func NewBadRequest() CommonError {
	return CommonError{
		Code:    http.StatusBadRequest,
		Message: "bad request",
	}
}

func NewNotFound() CommonError {
	return CommonError{
		Code:    http.StatusNotFound,
		Message: "not found",
	}
}

func NewConflict() CommonError {
	return CommonError{
		Code:    http.StatusConflict,
		Message: "conflict",
	}
}

func NewUnauthorized() CommonError {
	return CommonError{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	}
}

func NewInternalServerError() CommonError {
	return CommonError{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	}
}
