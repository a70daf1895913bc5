package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContaEntidades(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	setor := criarSetor(t, db, "TI")
	sala := criarSala(t, db, setor, 101)
	criarInventario(t, db, "PAT-001", sala)
	criarConferencia(t, db, sala, usuario, 2024)
	finalizada := criarConferencia(t, db, sala, usuario, 2023)
	require.NoError(t, db.Model(finalizada).Update("finalizada", true).Error)

	w := doGet(r, "/", sessionCookie(t, usuario))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	counts := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, counts["total_salas"])
	assert.EqualValues(t, 1, counts["total_inventarios"])
	assert.EqualValues(t, 2, counts["total_conferencias"])
	assert.EqualValues(t, 1, counts["conferencias_abertas"])
}

func TestPrincipalCacheInvalidadoAposMutacao(t *testing.T) {
	r, db := newTestApp(t)
	usuario := seedUsuario(t, db, "alice")
	setor := criarSetor(t, db, "TI")
	ck := sessionCookie(t, usuario)

	// primeira leitura aquece o cache
	w := doGet(r, "/", ck)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decodeResponse(t, w).Data.(map[string]interface{})
	assert.EqualValues(t, 0, counts["total_salas"])

	w = doPost(r, "/salas/nova", url.Values{
		"numero": {"101"},
		"setor":  {intToStr(setor.ID)},
	}, ck)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doGet(r, "/", ck)
	require.Equal(t, http.StatusOK, w.Code)
	counts = decodeResponse(t, w).Data.(map[string]interface{})
	assert.EqualValues(t, 1, counts["total_salas"], "mutações derrubam o cache de contagens")
}
