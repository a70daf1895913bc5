package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventario-system/internal/database/models"
)

type InventarioForm struct {
	Codigo          string `form:"codigo" binding:"required,max=50"`
	Descricao       string `form:"descricao" binding:"required,max=1000"`
	Tipo            string `form:"tipo" binding:"required,oneof=mobiliario eletrodomestico informatica escritorio outros"`
	Status          string `form:"status" binding:"omitempty,oneof=bom danificado inutilizado"`
	ValorAquisicao  string `form:"valor_aquisicao"`
	ValorDepreciado string `form:"valor_depreciado"`
	NumeroSerie     string `form:"numero_serie"`
	Obs             string `form:"obs"`
	SalaAtualID     *int64 `form:"sala_atual"`
}

type ListInventariosQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=50"`
}

func parseValor(s string) (*decimal.Decimal, bool) {
	if s == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// applyForm copies the validated form onto the record. Returns a user-facing
// message when a value fails domain validation.
func (h *Handler) applyInventarioForm(inv *models.Inventario, form InventarioForm) (string, bool) {
	valorAquisicao, ok := parseValor(form.ValorAquisicao)
	if !ok {
		return "Valor de aquisição inválido.", false
	}
	valorDepreciado, ok := parseValor(form.ValorDepreciado)
	if !ok {
		return "Valor depreciado inválido.", false
	}

	if form.SalaAtualID != nil {
		if err := h.db.First(&models.Sala{}, *form.SalaAtualID).Error; err != nil {
			return "Sala inválida.", false
		}
	}

	inv.Codigo = form.Codigo
	inv.Descricao = form.Descricao
	inv.Tipo = form.Tipo
	inv.Status = form.Status
	if inv.Status == "" {
		inv.Status = models.StatusBom
	}
	inv.ValorAquisicao = valorAquisicao
	inv.ValorDepreciado = valorDepreciado
	inv.NumeroSerie = strPtr(form.NumeroSerie)
	inv.Obs = strPtr(form.Obs)
	inv.SalaAtualID = form.SalaAtualID
	return "", true
}

func (h *Handler) ListInventarios(c *gin.Context) {
	var query ListInventariosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid query parameters"))
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 50
	}

	var total int64
	if err := h.db.Model(&models.Inventario{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var inventarios []models.Inventario
	offset := (query.Page - 1) * query.PageSize
	if err := h.db.Order("codigo").Preload("SalaAtual").Offset(offset).Limit(query.PageSize).Find(&inventarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	meta := gin.H{
		"page":      query.Page,
		"page_size": query.PageSize,
		"total":     total,
	}
	if f := takeFlash(c); f != nil {
		meta["flash"] = f
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Inventários", inventarios, meta))
}

func (h *Handler) CreateInventario(c *gin.Context) {
	var form InventarioForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Preencha código, descrição e tipo válidos."))
		return
	}

	var count int64
	if err := h.db.Model(&models.Inventario{}).Where("codigo = ?", form.Codigo).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, errorResponse("Código de patrimônio já cadastrado."))
		return
	}

	var inv models.Inventario
	if msg, ok := h.applyInventarioForm(&inv, form); !ok {
		c.JSON(http.StatusBadRequest, errorResponse(msg))
		return
	}

	if err := h.db.Create(&inv).Error; err != nil {
		// unique index on codigo is the backstop for concurrent creates
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			c.JSON(http.StatusConflict, errorResponse("Código de patrimônio já cadastrado."))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("error creating inventário"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Patrimônio cadastrado com sucesso!")
	c.Redirect(http.StatusSeeOther, "/inventarios")
}

func (h *Handler) UpdateInventario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var inv models.Inventario
	if err := h.db.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Patrimônio não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var form InventarioForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Preencha código, descrição e tipo válidos."))
		return
	}

	var count int64
	if err := h.db.Model(&models.Inventario{}).Where("codigo = ? AND id <> ?", form.Codigo, inv.ID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, errorResponse("Código de patrimônio já cadastrado."))
		return
	}

	if msg, ok := h.applyInventarioForm(&inv, form); !ok {
		c.JSON(http.StatusBadRequest, errorResponse(msg))
		return
	}

	if err := h.db.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error updating inventário"))
		return
	}

	setFlash(c, "success", "Patrimônio atualizado com sucesso!")
	c.Redirect(http.StatusSeeOther, "/inventarios")
}

// DeleteInventario removes the patrimônio and its confirmation records.
func (h *Handler) DeleteInventario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var inv models.Inventario
	if err := h.db.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Patrimônio não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inventario_id = ?", inv.ID).Delete(&models.ItemConferencia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error deleting inventário"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Patrimônio excluído com sucesso!")
	c.Redirect(http.StatusSeeOther, "/inventarios")
}
