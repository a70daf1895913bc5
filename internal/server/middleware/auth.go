package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventario-system/internal/database/models"
	"inventario-system/internal/utils"
)

// SessionCookie carries the signed session token.
const SessionCookie = "sessao"

// ContextUsuario is the gin context key holding the authenticated user.
const ContextUsuario = "usuario"

// SessionAuth validates the session cookie and loads the authenticated
// user onto the request context. Browser requests without a valid session
// are redirected to the login page; API clients get a plain 401.
func SessionAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			rejectUnauthenticated(c)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			rejectUnauthenticated(c)
			return
		}

		var usuario models.Usuario
		if err := db.First(&usuario, claims.UserId).Error; err != nil {
			rejectUnauthenticated(c)
			return
		}

		if !usuario.IsActive {
			rejectUnauthenticated(c)
			return
		}

		c.Set(ContextUsuario, &usuario)
		c.Next()
	}
}

// CurrentUsuario returns the user placed on the context by SessionAuth.
func CurrentUsuario(c *gin.Context) *models.Usuario {
	if v, ok := c.Get(ContextUsuario); ok {
		if u, ok := v.(*models.Usuario); ok {
			return u
		}
	}
	return nil
}

func rejectUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Authentication required",
	})
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
