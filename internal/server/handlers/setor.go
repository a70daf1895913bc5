package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventario-system/internal/database/models"
)

type SetorForm struct {
	Nome   string `form:"nome" binding:"required"`
	Sigla  string `form:"sigla" binding:"required,max=10"`
	Campus string `form:"campus" binding:"required"`
}

func (h *Handler) ListSetores(c *gin.Context) {
	var setores []models.Setor
	if err := h.db.Order("id").Find(&setores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Setores", setores, flashMeta(c)))
}

func (h *Handler) CreateSetor(c *gin.Context) {
	var form SetorForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Preencha nome, sigla (até 10 caracteres) e campus."))
		return
	}

	setor := models.Setor{
		Nome:   form.Nome,
		Sigla:  form.Sigla,
		Campus: form.Campus,
	}
	if err := h.db.Create(&setor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error creating setor"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Setor criado com sucesso!")
	c.Redirect(http.StatusSeeOther, "/setores")
}

func (h *Handler) UpdateSetor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var setor models.Setor
	if err := h.db.First(&setor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Setor não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var form SetorForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Preencha nome, sigla (até 10 caracteres) e campus."))
		return
	}

	setor.Nome = form.Nome
	setor.Sigla = form.Sigla
	setor.Campus = form.Campus
	if err := h.db.Save(&setor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error updating setor"))
		return
	}

	setFlash(c, "success", "Setor atualizado com sucesso!")
	c.Redirect(http.StatusSeeOther, "/setores")
}

// DeleteSetor removes the setor and everything under it: its salas, their
// conferências and itens, and detaches inventários located in those salas.
func (h *Handler) DeleteSetor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var setor models.Setor
	if err := h.db.First(&setor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Setor não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var salaIDs []int64
		if err := tx.Model(&models.Sala{}).Where("setor_id = ?", setor.ID).Pluck("id", &salaIDs).Error; err != nil {
			return err
		}

		if len(salaIDs) > 0 {
			if err := deleteSalasCascade(tx, salaIDs); err != nil {
				return err
			}
		}

		return tx.Delete(&setor).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error deleting setor"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Setor excluído com sucesso!")
	c.Redirect(http.StatusSeeOther, "/setores")
}

// deleteSalasCascade applies the relational cleanup for a set of salas:
// itens de conferência and conferências are deleted, inventários currently
// located there are kept but lose their sala.
func deleteSalasCascade(tx *gorm.DB, salaIDs []int64) error {
	var conferenciaIDs []int64
	if err := tx.Model(&models.Conferencia{}).Where("sala_id IN ?", salaIDs).Pluck("id", &conferenciaIDs).Error; err != nil {
		return err
	}

	if len(conferenciaIDs) > 0 {
		if err := tx.Where("conferencia_id IN ?", conferenciaIDs).Delete(&models.ItemConferencia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", conferenciaIDs).Delete(&models.Conferencia{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(&models.Inventario{}).Where("sala_atual_id IN ?", salaIDs).Update("sala_atual_id", nil).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", salaIDs).Delete(&models.Sala{}).Error
}
