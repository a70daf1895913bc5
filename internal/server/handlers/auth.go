package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inventario-system/config"
	"inventario-system/internal/database/models"
	"inventario-system/internal/server/middleware"
	"inventario-system/internal/utils"
)

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginPage exists as the redirect target for unauthenticated requests.
// Rendering the actual form is the frontend's concern.
func (h *Handler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, successWithMetaResponse("Informe suas credenciais", nil, flashMeta(c)))
}

func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "error", "Informe usuário e senha.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	var usuario models.Usuario
	if err := h.db.Where("username = ?", form.Username).First(&usuario).Error; err != nil {
		setFlash(c, "error", "Usuário ou senha inválidos.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.Password), []byte(form.Password)); err != nil {
		setFlash(c, "error", "Usuário ou senha inválidos.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if !usuario.IsActive {
		setFlash(c, "error", "Usuário desativado.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	token, exp, err := utils.GenerateToken(usuario.ID, usuario.Username, h.sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create session"))
		return
	}

	now := time.Now()
	if err := h.db.Model(&usuario).Update("last_login", &now).Error; err != nil {
		log.Printf("failed to record last login for %s: %v", usuario.Username, err)
	}

	maxAge := int(time.Until(exp).Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// SeedAdmin creates the initial admin account when the users table is empty.
// Skipped unless ADMIN_PASSWORD is set.
func SeedAdmin(db *gorm.DB, cfg config.AuthConfig) error {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.Usuario{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	usuario := models.Usuario{
		Username: cfg.AdminUsername,
		Password: string(hash),
		Nome:     cfg.AdminNome,
		IsActive: true,
	}
	if err := db.Create(&usuario).Error; err != nil {
		return err
	}
	log.Printf("admin user %q created", cfg.AdminUsername)
	return nil
}
