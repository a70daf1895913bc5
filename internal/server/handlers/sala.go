package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventario-system/internal/database/models"
)

type SalaForm struct {
	Numero  int   `form:"numero" binding:"required"`
	SetorID int64 `form:"setor" binding:"required"`
}

func (h *Handler) ListSalas(c *gin.Context) {
	var salas []models.Sala
	if err := h.db.Order("numero").Preload("Setor").Find(&salas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Salas", salas, flashMeta(c)))
}

func (h *Handler) CreateSala(c *gin.Context) {
	var form SalaForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Informe o número da sala e o setor."))
		return
	}

	if err := h.db.First(&models.Setor{}, form.SetorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, errorResponse("Setor inválido."))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	sala := models.Sala{
		Numero:  form.Numero,
		SetorID: form.SetorID,
	}
	if err := h.db.Create(&sala).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error creating sala"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Sala criada com sucesso!")
	c.Redirect(http.StatusSeeOther, "/salas")
}

func (h *Handler) UpdateSala(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var sala models.Sala
	if err := h.db.First(&sala, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Sala não encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var form SalaForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Informe o número da sala e o setor."))
		return
	}

	if err := h.db.First(&models.Setor{}, form.SetorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Setor inválido."))
		return
	}

	sala.Numero = form.Numero
	sala.SetorID = form.SetorID
	if err := h.db.Save(&sala).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error updating sala"))
		return
	}

	setFlash(c, "success", "Sala atualizada com sucesso!")
	c.Redirect(http.StatusSeeOther, "/salas")
}

// DeleteSala deletes the sala, its conferências (and their itens) and
// nullifies inventários that were located there.
func (h *Handler) DeleteSala(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var sala models.Sala
	if err := h.db.First(&sala, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Sala não encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		return deleteSalasCascade(tx, []int64{sala.ID})
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error deleting sala"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Sala excluída com sucesso!")
	c.Redirect(http.StatusSeeOther, "/salas")
}
