package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventario-system/internal/database/models"
)

func TestCreateInventario(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	setor := criarSetor(t, db, "TI")
	sala := criarSala(t, db, setor, 101)

	w := doPost(r, "/inventarios/novo", url.Values{
		"codigo":          {"PAT-001"},
		"descricao":       {"Computador de mesa"},
		"tipo":            {"informatica"},
		"valor_aquisicao": {"3500.50"},
		"sala_atual":      {fmt.Sprint(sala.ID)},
	}, sessionCookie(t, usuario))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var inv models.Inventario
	require.NoError(t, db.Where("codigo = ?", "PAT-001").First(&inv).Error)
	assert.Equal(t, "informatica", inv.Tipo)
	assert.Equal(t, models.StatusBom, inv.Status, "status deve assumir o padrão bom")
	require.NotNil(t, inv.ValorAquisicao)
	assert.Equal(t, "3500.5", inv.ValorAquisicao.String())
	require.NotNil(t, inv.SalaAtualID)
	assert.Equal(t, sala.ID, *inv.SalaAtualID)
}

func TestCreateInventarioCodigoDuplicado(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	criarInventario(t, db, "PAT-001", nil)

	w := doPost(r, "/inventarios/novo", url.Values{
		"codigo":    {"PAT-001"},
		"descricao": {"Outro item"},
		"tipo":      {"outros"},
	}, sessionCookie(t, usuario))
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Inventario{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateInventarioTipoInvalido(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")

	w := doPost(r, "/inventarios/novo", url.Values{
		"codigo":    {"PAT-001"},
		"descricao": {"Computador"},
		"tipo":      {"veiculo"},
	}, sessionCookie(t, usuario))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInventarioValorInvalido(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")

	w := doPost(r, "/inventarios/novo", url.Values{
		"codigo":          {"PAT-001"},
		"descricao":       {"Computador"},
		"tipo":            {"informatica"},
		"valor_aquisicao": {"não é número"},
	}, sessionCookie(t, usuario))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Inventario{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateInventario(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	inv := criarInventario(t, db, "PAT-001", nil)

	w := doPost(r, fmt.Sprintf("/inventarios/%d/editar", inv.ID), url.Values{
		"codigo":    {"PAT-001"},
		"descricao": {"Computador recondicionado"},
		"tipo":      {"informatica"},
		"status":    {"danificado"},
		"obs":       {"Tela riscada"},
	}, sessionCookie(t, usuario))
	require.Equal(t, http.StatusSeeOther, w.Code)

	require.NoError(t, db.First(inv, inv.ID).Error)
	assert.Equal(t, "Computador recondicionado", inv.Descricao)
	assert.Equal(t, models.StatusDanificado, inv.Status)
	require.NotNil(t, inv.Obs)
	assert.Equal(t, "Tela riscada", *inv.Obs)
}

func TestUpdateInventarioParaCodigoJaExistente(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	criarInventario(t, db, "PAT-001", nil)
	inv := criarInventario(t, db, "PAT-002", nil)

	w := doPost(r, fmt.Sprintf("/inventarios/%d/editar", inv.ID), url.Values{
		"codigo":    {"PAT-001"},
		"descricao": {"Computador"},
		"tipo":      {"informatica"},
	}, sessionCookie(t, usuario))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListInventariosOrdenadoPorCodigoComPaginacao(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	criarInventario(t, db, "PAT-003", nil)
	criarInventario(t, db, "PAT-001", nil)
	criarInventario(t, db, "PAT-002", nil)

	w := doGet(r, "/inventarios?page=1&page_size=2", sessionCookie(t, usuario))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	itens := resp.Data.([]interface{})
	require.Len(t, itens, 2)
	assert.Equal(t, "PAT-001", itens[0].(map[string]interface{})["codigo"])
	assert.Equal(t, "PAT-002", itens[1].(map[string]interface{})["codigo"])

	meta := resp.Meta.(map[string]interface{})
	assert.EqualValues(t, 3, meta["total"])

	w = doGet(r, "/inventarios?page=2&page_size=2", sessionCookie(t, usuario))
	resp = decodeResponse(t, w)
	itens = resp.Data.([]interface{})
	require.Len(t, itens, 1)
	assert.Equal(t, "PAT-003", itens[0].(map[string]interface{})["codigo"])
}

func TestDeleteInventarioRemoveItensDeConferencia(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	setor := criarSetor(t, db, "TI")
	sala := criarSala(t, db, setor, 101)
	inv := criarInventario(t, db, "PAT-001", sala)
	conferencia := criarConferencia(t, db, sala, usuario, 2024)
	item := models.ItemConferencia{
		ConferenciaID:   conferencia.ID,
		InventarioID:    inv.ID,
		StatusConferido: models.StatusBom,
	}
	require.NoError(t, db.Create(&item).Error)

	w := doPost(r, fmt.Sprintf("/inventarios/%d/excluir", inv.ID), url.Values{}, sessionCookie(t, usuario))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var itens int64
	require.NoError(t, db.Model(&models.ItemConferencia{}).Count(&itens).Error)
	assert.Zero(t, itens)

	// a conferência em si permanece
	require.NoError(t, db.First(&models.Conferencia{}, conferencia.ID).Error)
}

func TestDeleteInventarioInexistente(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")

	w := doPost(r, "/inventarios/99/excluir", url.Values{}, sessionCookie(t, usuario))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
