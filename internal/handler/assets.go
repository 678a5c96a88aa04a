package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio/internal/config"
	"portfolio/internal/service"
)

type AssetHandler struct {
	Assets *service.AssetService
	Query  *service.PortfolioQueryService
	Auth   config.AuthConfig
}

func (h *AssetHandler) Register(r *gin.Engine) {
	g := r.Group("/api/user/:userId", RequireAuth(h.Auth))
	g.POST("/assets", h.add)
	g.GET("/assets/cash", h.cash)
	g.GET("/assets/stocks/cost", h.stockCost)
	g.GET("/assets/stocks", h.stockValue)
	g.GET("/assets/details", h.details)
	g.GET("/assets/:asset_type/:symbol", h.get)
}

type addAssetRequest struct {
	AssetType    string          `json:"asset_type"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// @Summary Add or top up a position without trading
// @Tags assets
// @Accept json
// @Param userId path int true "user id"
// @Param body body addAssetRequest true "position"
// @Success 200 {object} service.AddAssetResult
// @Router /api/user/{userId}/assets [post]
func (h *AssetHandler) add(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req addAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Assets.AddAsset(c.Request.Context(), userID, req.AssetType, req.Symbol, req.Quantity, req.AveragePrice)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}

// @Summary Total cash balance
// @Tags assets
// @Param userId path int true "user id"
// @Success 200 {object} map[string]string
// @Router /api/user/{userId}/assets/cash [get]
func (h *AssetHandler) cash(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	total, err := h.Query.TotalCash(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"totalCash": total}, nil)
}

// @Summary Total stock cost basis
// @Tags assets
// @Param userId path int true "user id"
// @Success 200 {object} map[string]string
// @Router /api/user/{userId}/assets/stocks/cost [get]
func (h *AssetHandler) stockCost(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	total, err := h.Query.TotalStockCost(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"totalCost": total}, nil)
}

// @Summary Total stock value at live prices
// @Tags assets
// @Param userId path int true "user id"
// @Success 200 {object} map[string]string
// @Router /api/user/{userId}/assets/stocks [get]
func (h *AssetHandler) stockValue(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	total, err := h.Query.TotalStockValue(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"totalValue": total}, nil)
}

// @Summary Every position with live pricing
// @Tags assets
// @Param userId path int true "user id"
// @Success 200 {array} service.AssetDetail
// @Router /api/user/{userId}/assets/details [get]
func (h *AssetHandler) details(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	items, err := h.Query.AssetDetails(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary One position with live pricing
// @Tags assets
// @Param userId path int true "user id"
// @Param asset_type path string true "stock or cash"
// @Param symbol path string true "symbol"
// @Success 200 {object} service.AssetDetail
// @Router /api/user/{userId}/assets/{asset_type}/{symbol} [get]
func (h *AssetHandler) get(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	detail, err := h.Query.GetAssetDetail(c.Request.Context(), userID, c.Param("asset_type"), c.Param("symbol"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, detail, nil)
}
