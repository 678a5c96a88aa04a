package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/quote"
)

// MarketHandler proxies read-only market data so browser clients never see
// the upstream API key.
type MarketHandler struct {
	Client *quote.Client
}

func (h *MarketHandler) Register(r *gin.Engine) {
	g := r.Group("/api/stock")
	g.GET("/quote/:symbol", h.getQuote)
	g.GET("/search/:keywords", h.search)
	g.GET("/:symbol", h.timeSeries)
}

func marketError(c *gin.Context, err error) {
	var upstream *quote.UpstreamError
	if errors.Is(err, quote.ErrUnavailable) || errors.As(err, &upstream) {
		Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	Error(c, http.StatusBadGateway, "market data unavailable", nil)
}

// @Summary Live quote for a symbol
// @Tags market
// @Param symbol path string true "symbol"
// @Success 200 {object} map[string]any
// @Router /api/stock/quote/{symbol} [get]
func (h *MarketHandler) getQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		Error(c, http.StatusBadRequest, "symbol is required", nil)
		return
	}
	raw, err := h.Client.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		marketError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// @Summary Daily time series for a symbol
// @Tags market
// @Param symbol path string true "symbol"
// @Param interval query string false "default 1day"
// @Param outputsize query string false "default 30"
// @Success 200 {object} map[string]any
// @Router /api/stock/{symbol} [get]
func (h *MarketHandler) timeSeries(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		Error(c, http.StatusBadRequest, "symbol is required", nil)
		return
	}
	interval := strings.TrimSpace(c.Query("interval"))
	if interval == "" {
		interval = "1day"
	}
	outputSize := strings.TrimSpace(c.Query("outputsize"))
	if outputSize == "" {
		outputSize = "30"
	}
	raw, err := h.Client.GetTimeSeries(c.Request.Context(), symbol, interval, outputSize)
	if err != nil {
		marketError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// @Summary Search symbols by keywords
// @Tags market
// @Param keywords path string true "search text"
// @Success 200 {object} map[string]any
// @Router /api/stock/search/{keywords} [get]
func (h *MarketHandler) search(c *gin.Context) {
	keywords := strings.TrimSpace(c.Param("keywords"))
	if keywords == "" {
		Error(c, http.StatusBadRequest, "keywords are required", nil)
		return
	}
	raw, err := h.Client.SearchSymbols(c.Request.Context(), keywords)
	if err != nil {
		marketError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
