package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"

	"inventario-system/internal/database/models"
)

func salaLabel(s *models.Sala) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("Sala %d", s.Numero)
}

func (h *Handler) relatorioInventarios() ([]models.Inventario, error) {
	var inventarios []models.Inventario
	err := h.db.Order("codigo").Preload("SalaAtual").Find(&inventarios).Error
	return inventarios, err
}

func (h *Handler) RelatorioCSV(c *gin.Context) {
	inventarios, err := h.relatorioInventarios()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Codigo", "Descricao", "Tipo", "Status", "Sala Atual"})
	for _, inv := range inventarios {
		_ = w.Write([]string{inv.Codigo, inv.Descricao, inv.Tipo, inv.Status, salaLabel(inv.SalaAtual)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error writing report"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="relatorio_inventario.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) RelatorioPDF(c *gin.Context) {
	inventarios, err := h.relatorioInventarios()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("database error"))
		return
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	_, altura := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(50, 50, tr("Relatório de Inventário"))

	pdf.SetFont("Helvetica", "", 12)
	y := 80.0
	for _, inv := range inventarios {
		linha := fmt.Sprintf("%s - Descrição: %s - Tipo: %s - Status: %s - Sala atual: %s",
			inv.Codigo, inv.Descricao, inv.Tipo, inv.Status, salaLabel(inv.SalaAtual))
		pdf.Text(50, y, tr(linha))
		y += 20
		if y > altura-50 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 12)
			y = 50
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error writing report"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="relatorio_inventario.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
