package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventario-system/internal/database/models"
)

type DashboardCounts struct {
	TotalSalas          int64 `json:"total_salas"`
	TotalInventarios    int64 `json:"total_inventarios"`
	TotalConferencias   int64 `json:"total_conferencias"`
	ConferenciasAbertas int64 `json:"conferencias_abertas"`
}

func (h *Handler) Principal(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redis.Get(ctx, DASHBOARD_CACHE_KEY).Result(); err == nil {
		var counts DashboardCounts
		if err := json.Unmarshal([]byte(cached), &counts); err == nil {
			c.JSON(http.StatusOK, successWithMetaResponse("Dashboard", counts, flashMeta(c)))
			return
		}
	}

	var counts DashboardCounts
	if err := h.db.Model(&models.Sala{}).Count(&counts.TotalSalas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	if err := h.db.Model(&models.Inventario{}).Count(&counts.TotalInventarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	if err := h.db.Model(&models.Conferencia{}).Count(&counts.TotalConferencias).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	if err := h.db.Model(&models.Conferencia{}).Where("finalizada = ?", false).Count(&counts.ConferenciasAbertas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	if payload, err := json.Marshal(counts); err == nil {
		_ = h.redis.Set(ctx, DASHBOARD_CACHE_KEY, payload, CACHE_TTL_SHORT)
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Dashboard", counts, flashMeta(c)))
}
