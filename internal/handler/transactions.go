package handler

import (
	"github.com/gin-gonic/gin"

	"portfolio/internal/config"
	"portfolio/internal/service"
)

type TransactionHandler struct {
	Query *service.PortfolioQueryService
	Auth  config.AuthConfig
}

func (h *TransactionHandler) Register(r *gin.Engine) {
	g := r.Group("/api/user/:userId", RequireAuth(h.Auth))
	g.GET("/transactions", h.list)
}

// @Summary Trade history, newest first
// @Tags transactions
// @Param userId path int true "user id"
// @Param symbol query string false "filter by symbol"
// @Param type query string false "buy or sell"
// @Param page query int false "1-based page, default 1"
// @Param pageSize query int false "default 10"
// @Success 200 {object} service.TransactionPage
// @Router /api/user/{userId}/transactions [get]
func (h *TransactionHandler) list(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 10)
	result, err := h.Query.Transactions(c.Request.Context(), userID, c.Query("symbol"), c.Query("type"), page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, pageMeta(result.Page, result.PageSize, result.Total))
}
