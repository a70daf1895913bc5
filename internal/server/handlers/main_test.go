package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventario-system/config"
	"inventario-system/internal/database"
	"inventario-system/internal/database/models"
	"inventario-system/internal/server"
	"inventario-system/internal/server/middleware"
	"inventario-system/internal/utils"
)

const testPassword = "senha123"

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{
		Auth:   config.AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour},
		Upload: config.UploadConfig{Dir: t.TempDir()},
	}

	return server.New(db, rdb, cfg), db
}

func seedUsuario(t *testing.T, db *gorm.DB, username string) *models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	usuario := models.Usuario{
		Username: username,
		Password: string(hash),
		Nome:     "Usuário de Teste",
		IsActive: true,
	}
	require.NoError(t, db.Create(&usuario).Error)
	return &usuario
}

func sessionCookie(t *testing.T, usuario *models.Usuario) *http.Cookie {
	t.Helper()
	token, _, err := utils.GenerateToken(usuario.ID, usuario.Username, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func doGet(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGetWithAccept(r *gin.Engine, path, accept string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", accept)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPost(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- fixtures ---

func criarSetor(t *testing.T, db *gorm.DB, sigla string) *models.Setor {
	t.Helper()
	setor := models.Setor{Nome: "Tecnologia da Informação", Sigla: sigla, Campus: "Brasília"}
	require.NoError(t, db.Create(&setor).Error)
	return &setor
}

func criarSala(t *testing.T, db *gorm.DB, setor *models.Setor, numero int) *models.Sala {
	t.Helper()
	sala := models.Sala{Numero: numero, SetorID: setor.ID}
	require.NoError(t, db.Create(&sala).Error)
	return &sala
}

func criarInventario(t *testing.T, db *gorm.DB, codigo string, sala *models.Sala) *models.Inventario {
	t.Helper()
	inv := models.Inventario{
		Codigo:    codigo,
		Descricao: "Computador de mesa",
		Tipo:      models.TipoInformatica,
		Status:    models.StatusBom,
	}
	if sala != nil {
		inv.SalaAtualID = &sala.ID
	}
	require.NoError(t, db.Create(&inv).Error)
	return &inv
}

func criarConferencia(t *testing.T, db *gorm.DB, sala *models.Sala, usuario *models.Usuario, ano int) *models.Conferencia {
	t.Helper()
	conferencia := models.Conferencia{SalaID: sala.ID, Ano: ano, UsuarioID: usuario.ID}
	require.NoError(t, db.Create(&conferencia).Error)
	return &conferencia
}

func intToStr(id int64) string {
	return strconv.FormatInt(id, 10)
}

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func hasFlashCookie(w *httptest.ResponseRecorder) bool {
	for _, raw := range w.Result().Cookies() {
		if raw.Name == "flash" && raw.Value != "" {
			return true
		}
	}
	return false
}
