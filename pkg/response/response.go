package response

import (
	"errors"
	"net/http"

	"digibank/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess      = 0
	CodeParamError   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// Business codes for ledger error kinds.
const (
	CodeInvalidState      = 1001
	CodeInsufficientFunds = 1002
	CodeConflict          = 1003
	CodeGatewayFailure    = 1004
	CodeStorageFailure    = 1005
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeParamError, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// FromError maps a service error kind to an HTTP status and business code.
// Only the kind and its detail message reach the client; raw storage and
// network errors stay inside.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Error(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		Error(c, http.StatusUnprocessableEntity, CodeInvalidState, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		Error(c, http.StatusBadRequest, CodeParamError, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		Error(c, http.StatusUnprocessableEntity, CodeInsufficientFunds, err.Error())
	case errors.Is(err, service.ErrConflict):
		Error(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, service.ErrGatewayFailure):
		Error(c, http.StatusBadGateway, CodeGatewayFailure, err.Error())
	default:
		Error(c, http.StatusInternalServerError, CodeStorageFailure, "internal error")
	}
}
