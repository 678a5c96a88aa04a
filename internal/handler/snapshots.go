package handler

import (
	"github.com/gin-gonic/gin"

	"portfolio/internal/config"
	"portfolio/internal/repository"
)

type SnapshotHandler struct {
	Repo repository.Repository
	Auth config.AuthConfig
}

func (h *SnapshotHandler) Register(r *gin.Engine) {
	g := r.Group("/api/user/:userId", RequireAuth(h.Auth))
	g.GET("/snapshots", h.list)
}

// @Summary Recent portfolio valuation snapshots, newest first
// @Tags snapshots
// @Param userId path int true "user id"
// @Param limit query int false "default 30"
// @Success 200 {array} models.PortfolioSnapshot
// @Router /api/user/{userId}/snapshots [get]
func (h *SnapshotHandler) list(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 30)
	items, err := h.Repo.ListPortfolioSnapshots(c.Request.Context(), userID, limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}
