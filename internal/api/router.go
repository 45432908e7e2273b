// Package api wires the HTTP surface of the backend.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/calevents/calevents/internal/api/handlers"
	"github.com/calevents/calevents/internal/api/middleware"
)

// NewRouter builds the Gin engine with all routes attached. Gin's recovery
// middleware guarantees no request failure crashes the process.
func NewRouter(h *handlers.CalendarHandler) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	{
		api.POST("/calendar", h.FetchEvents)
	}

	return r
}
