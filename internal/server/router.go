package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"inventario-system/config"
	"inventario-system/internal/server/handlers"
	"inventario-system/internal/server/middleware"
)

// New assembles the gin engine with every route of the application.
func New(db *gorm.DB, redisClient *redis.Client, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	h := handlers.New(db, redisClient, cfg.Upload.Dir, cfg.Auth.SessionTTL)

	r.GET("/health", healthCheckHandler(db, redisClient))

	// --- Public routes ---
	r.GET("/login", h.LoginPage)
	r.POST("/login", middleware.RateLimit("10-M"), h.Login)
	r.POST("/logout", h.Logout)

	// --- Protected routes ---
	protected := r.Group("/")
	protected.Use(middleware.SessionAuth(db))
	{
		protected.GET("", h.Principal)

		setores := protected.Group("/setores")
		{
			setores.GET("", h.ListSetores)
			setores.POST("/novo", h.CreateSetor)
			setores.POST("/:id/editar", h.UpdateSetor)
			setores.POST("/:id/excluir", h.DeleteSetor)
		}

		salas := protected.Group("/salas")
		{
			salas.GET("", h.ListSalas)
			salas.POST("/nova", h.CreateSala)
			salas.POST("/:id/editar", h.UpdateSala)
			salas.POST("/:id/excluir", h.DeleteSala)
		}

		inventarios := protected.Group("/inventarios")
		{
			inventarios.GET("", h.ListInventarios)
			inventarios.POST("/novo", h.CreateInventario)
			inventarios.POST("/:id/editar", h.UpdateInventario)
			inventarios.POST("/:id/excluir", h.DeleteInventario)
		}

		relatorio := protected.Group("/relatorio")
		{
			relatorio.GET("/pdf", h.RelatorioPDF)
			relatorio.GET("/csv", h.RelatorioCSV)
		}

		conferencias := protected.Group("/conferencias")
		{
			conferencias.GET("", h.ListConferencias)
			conferencias.POST("/nova", h.CreateConferencia)
			conferencias.POST("/:id/editar", h.UpdateConferencia)
			conferencias.POST("/:id/excluir", h.DeleteConferencia)

			conferencias.POST("/iniciar", h.IniciarConferencia)
			conferencias.GET("/:id/realizar", h.RealizarConferencia)
			conferencias.POST("/:id/realizar", h.RealizarConferenciaPost)
			conferencias.GET("/:id/confirmar/:inventario_id", h.ConfirmarItem)
			conferencias.POST("/:id/confirmar/:inventario_id", h.ConfirmarItemPost)
		}
	}

	return r
}

func healthCheckHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK

		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"timestamp": time.Now(),
		})
	}
}
