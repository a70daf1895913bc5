package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventario-system/internal/database/models"
	"inventario-system/internal/server/middleware"
)

type ConferenciaForm struct {
	Sala int64 `form:"sala" binding:"required"`
	Ano  int   `form:"ano" binding:"required"`
}

type ConfirmarItemForm struct {
	StatusConferido string `form:"status_conferido" binding:"required,oneof=bom danificado inutilizado"`
	Observacao      string `form:"observacao"`
}

func (h *Handler) ListConferencias(c *gin.Context) {
	var conferencias []models.Conferencia
	if err := h.db.Order("data_inicio desc").Preload("Sala").Preload("Usuario").Find(&conferencias).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Conferências", conferencias, flashMeta(c)))
}

// criarConferencia validates the form and persists a new open conferência
// attributed to the session user. The auditor is never client-settable.
func (h *Handler) criarConferencia(c *gin.Context) (*models.Conferencia, bool) {
	var form ConferenciaForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Informe a sala e o ano da conferência."))
		return nil, false
	}

	if err := h.db.First(&models.Sala{}, form.Sala).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, errorResponse("Sala inválida."))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return nil, false
	}

	usuario := middleware.CurrentUsuario(c)
	if usuario == nil {
		c.JSON(http.StatusUnauthorized, errorResponse("Authentication required"))
		return nil, false
	}

	conferencia := models.Conferencia{
		SalaID:    form.Sala,
		Ano:       form.Ano,
		UsuarioID: usuario.ID,
	}
	if err := h.db.Create(&conferencia).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error creating conferência"))
		return nil, false
	}

	h.invalidateDashboardCache(c.Request.Context())
	return &conferencia, true
}

func (h *Handler) CreateConferencia(c *gin.Context) {
	if _, ok := h.criarConferencia(c); !ok {
		return
	}
	setFlash(c, "success", "Conferência criada com sucesso!")
	c.Redirect(http.StatusSeeOther, "/conferencias")
}

// IniciarConferencia opens a new conferência and sends the auditor straight
// to the perform page.
func (h *Handler) IniciarConferencia(c *gin.Context) {
	conferencia, ok := h.criarConferencia(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/conferencias/%d/realizar", conferencia.ID))
}

func (h *Handler) UpdateConferencia(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var conferencia models.Conferencia
	if err := h.db.First(&conferencia, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Conferência não encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var form ConferenciaForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Informe a sala e o ano da conferência."))
		return
	}

	if err := h.db.First(&models.Sala{}, form.Sala).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Sala inválida."))
		return
	}

	conferencia.SalaID = form.Sala
	conferencia.Ano = form.Ano
	if err := h.db.Save(&conferencia).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error updating conferência"))
		return
	}

	setFlash(c, "success", "Conferência atualizada com sucesso!")
	c.Redirect(http.StatusSeeOther, "/conferencias")
}

func (h *Handler) DeleteConferencia(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	var conferencia models.Conferencia
	if err := h.db.First(&conferencia, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Conferência não encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conferencia_id = ?", conferencia.ID).Delete(&models.ItemConferencia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&conferencia).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error deleting conferência"))
		return
	}

	h.invalidateDashboardCache(c.Request.Context())
	setFlash(c, "success", "Conferência excluída com sucesso!")
	c.Redirect(http.StatusSeeOther, "/conferencias")
}

// loadConferenciaAberta fetches the conferência and applies the finalizada
// short-circuit: once finalized, every workflow route bounces back to the
// list with a warning.
func (h *Handler) loadConferenciaAberta(c *gin.Context) (*models.Conferencia, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return nil, false
	}

	var conferencia models.Conferencia
	if err := h.db.Preload("Sala").First(&conferencia, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			setFlash(c, "error", "Conferência não encontrada.")
			c.Redirect(http.StatusSeeOther, "/conferencias")
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return nil, false
	}

	if conferencia.Finalizada {
		setFlash(c, "warning", "Esta conferência já foi finalizada.")
		c.Redirect(http.StatusSeeOther, "/conferencias")
		return nil, false
	}

	return &conferencia, true
}

func (h *Handler) RealizarConferencia(c *gin.Context) {
	conferencia, ok := h.loadConferenciaAberta(c)
	if !ok {
		return
	}

	var itens []models.ItemConferencia
	if err := h.db.Where("conferencia_id = ?", conferencia.ID).Preload("Inventario").Order("data_conferencia").Find(&itens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	data := gin.H{
		"conferencia":      conferencia,
		"itens_conferidos": itens,
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Conferência em andamento", data, flashMeta(c)))
}

// RealizarConferenciaPost handles both actions of the perform page: the
// "finalizar" button and the patrimônio code lookup.
func (h *Handler) RealizarConferenciaPost(c *gin.Context) {
	conferencia, ok := h.loadConferenciaAberta(c)
	if !ok {
		return
	}

	if c.PostForm("finalizar") != "" {
		if err := h.finalizarConferencia(conferencia); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("error finalizing conferência"))
			return
		}
		h.invalidateDashboardCache(c.Request.Context())
		setFlash(c, "success", "Conferência finalizada com sucesso!")
		c.Redirect(http.StatusSeeOther, "/conferencias")
		return
	}

	// Exact match, no trimming or case folding: the code comes from a
	// barcode scanner.
	codigo := c.PostForm("codigo_patrimonio")
	if codigo == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Informe o código do patrimônio."))
		return
	}

	var inventario models.Inventario
	if err := h.db.Where("codigo = ?", codigo).First(&inventario).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			setFlash(c, "error", fmt.Sprintf("Patrimônio com código %q não encontrado.", codigo))
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/conferencias/%d/realizar", conferencia.ID))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/conferencias/%d/confirmar/%d", conferencia.ID, inventario.ID))
}

// finalizarConferencia is idempotent: finalizing an already finalized
// conferência succeeds without touching data_fim.
func (h *Handler) finalizarConferencia(conferencia *models.Conferencia) error {
	if conferencia.Finalizada {
		return nil
	}
	now := time.Now()
	conferencia.Finalizada = true
	conferencia.DataFim = &now
	return h.db.Save(conferencia).Error
}

func (h *Handler) loadConfirmacao(c *gin.Context) (*models.Conferencia, *models.Inventario, bool) {
	conferencia, ok := h.loadConferenciaAberta(c)
	if !ok {
		return nil, nil, false
	}

	inventarioID, err := strconv.ParseInt(c.Param("inventario_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return nil, nil, false
	}

	var inventario models.Inventario
	if err := h.db.First(&inventario, inventarioID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			setFlash(c, "error", "Patrimônio não encontrado.")
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/conferencias/%d/realizar", conferencia.ID))
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return nil, nil, false
	}

	return conferencia, &inventario, true
}

func (h *Handler) ConfirmarItem(c *gin.Context) {
	conferencia, inventario, ok := h.loadConfirmacao(c)
	if !ok {
		return
	}

	var existente models.ItemConferencia
	jaConferido := true
	statusSugerido := inventario.Status
	err := h.db.Where("conferencia_id = ? AND inventario_id = ?", conferencia.ID, inventario.ID).First(&existente).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, errorResponse("database error"))
			return
		}
		jaConferido = false
	} else {
		statusSugerido = existente.StatusConferido
	}

	data := gin.H{
		"conferencia":     conferencia,
		"inventario":      inventario,
		"ja_conferido":    jaConferido,
		"status_sugerido": statusSugerido,
	}
	if jaConferido {
		data["item"] = existente
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Confirmar item", data, flashMeta(c)))
}

// ConfirmarItemPost records the confirmation of one patrimônio within a
// conferência. Creates the item on first confirmation, updates it on
// re-confirmation (keeping the original data_conferencia), and always moves
// the patrimônio to the conferência's sala.
func (h *Handler) ConfirmarItemPost(c *gin.Context) {
	conferencia, inventario, ok := h.loadConfirmacao(c)
	if !ok {
		return
	}

	var form ConfirmarItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Informe um status de conservação válido."))
		return
	}

	imagemPath, err := h.salvarImagemObservacao(c, conferencia.ID, inventario.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error saving observation image"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var item models.ItemConferencia
		err := tx.Where("conferencia_id = ? AND inventario_id = ?", conferencia.ID, inventario.ID).First(&item).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			item = models.ItemConferencia{
				ConferenciaID:    conferencia.ID,
				InventarioID:     inventario.ID,
				StatusConferido:  form.StatusConferido,
				Observacao:       strPtr(form.Observacao),
				ImagemObservacao: imagemPath,
			}
			// on a concurrent double-confirm the unique pair index wins
			// and the second writer falls through to an update
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "conferencia_id"}, {Name: "inventario_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status_conferido", "observacao", "imagem_observacao"}),
			}).Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.StatusConferido = form.StatusConferido
			item.Observacao = strPtr(form.Observacao)
			if imagemPath != nil {
				item.ImagemObservacao = imagemPath
			}
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		// the confirmed item is physically here, wherever it was before
		return tx.Model(&models.Inventario{}).Where("id = ?", inventario.ID).
			Update("sala_atual_id", conferencia.SalaID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error confirming item"))
		return
	}

	setFlash(c, "success", fmt.Sprintf("Item %s conferido com sucesso!", inventario.Codigo))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/conferencias/%d/realizar", conferencia.ID))
}

// salvarImagemObservacao stores an optional multipart upload under the
// observacoes directory and returns its relative path.
func (h *Handler) salvarImagemObservacao(c *gin.Context, conferenciaID, inventarioID int64) (*string, error) {
	file, err := c.FormFile("imagem_observacao")
	if err != nil || file == nil {
		return nil, nil
	}

	nome := fmt.Sprintf("%d_%d_%d%s", conferenciaID, inventarioID, time.Now().UnixNano(), filepath.Ext(file.Filename))
	rel := filepath.Join("observacoes", nome)
	dst := filepath.Join(h.uploadDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, err
	}
	return &rel, nil
}
