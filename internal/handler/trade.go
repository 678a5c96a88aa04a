package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio/internal/config"
	"portfolio/internal/service"
)

type TradeHandler struct {
	Executor *service.TradeExecutor
	Query    *service.PortfolioQueryService
	Auth     config.AuthConfig
}

func (h *TradeHandler) Register(r *gin.Engine) {
	g := r.Group("/api/user/:userId", RequireAuth(h.Auth))
	g.POST("/buy", h.buy)
	g.POST("/sell", h.sell)
	g.GET("/held-stocks", h.heldStocks)
}

type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}

// @Summary Buy a stock at the live market price
// @Tags trade
// @Accept json
// @Param userId path int true "user id"
// @Param body body tradeRequest true "order"
// @Success 200 {object} service.BuyResult
// @Router /api/user/{userId}/buy [post]
func (h *TradeHandler) buy(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Executor.Buy(c.Request.Context(), userID, req.Symbol, req.Quantity)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}

// @Summary Sell a held stock at the live market price
// @Tags trade
// @Accept json
// @Param userId path int true "user id"
// @Param body body tradeRequest true "order"
// @Success 200 {object} service.SellResult
// @Router /api/user/{userId}/sell [post]
func (h *TradeHandler) sell(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Executor.Sell(c.Request.Context(), userID, req.Symbol, req.Quantity)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}

// @Summary List symbols currently held with a positive quantity
// @Tags trade
// @Param userId path int true "user id"
// @Success 200 {array} string
// @Router /api/user/{userId}/held-stocks [get]
func (h *TradeHandler) heldStocks(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	symbols, err := h.Query.HeldSymbols(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, symbols, nil)
}
