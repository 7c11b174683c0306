package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"vertex-crm/middleware"
	"vertex-crm/monitoring"
)

// NewRouter wires middleware and the client routes.
func NewRouter(h *ClientHandler, logger *log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.PrometheusMetrics())
	router.Use(middleware.ErrorHandler(logger))

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/search/clients", h.SearchClients)

		clients := api.Group("/clients")
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}

	return router
}
