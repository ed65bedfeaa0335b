package main

import (
	"github.com/gin-gonic/gin"

	"testea/internal/httpapi"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, guard gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Project access flow. The POST is the only route that accepts the
	// project password; everything below /v1 relies on the cookie it sets.
	projects := r.Group("/projects")
	{
		projects.GET("/:name/access", h.AccessStatus)
		projects.POST("/:name/access", h.VerifyAccess)
		projects.DELETE("/:name/access", h.RevokeAccess)
	}

	// Mutations gated on project access. Each route group here mirrors a
	// family of server actions in the web app; CreateSuite is the template.
	v1 := r.Group("/v1")
	{
		v1.POST("/projects/:id/suites", guard, h.CreateSuite)
	}
}
