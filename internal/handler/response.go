package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/ledger"
	"portfolio/internal/service"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// ServiceError maps ledger sentinels onto HTTP statuses. Anything not
// recognized is a store or programming fault and stays opaque to the client.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ledger.ErrPriceUnavailable):
		Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ledger.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrUserExists):
		Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrBadCredentials):
		Error(c, http.StatusUnauthorized, err.Error(), nil)
	default:
		Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
