package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP routes onto the engine. Shared between the
// standalone server and the serverless entrypoint.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shiftplan API",
			"version": "1.3.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/audit", h.ListAuditLogs)
	}

	// Scheduling and data endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/auto", h.AutoSchedule)

		api.POST("/employees", h.CreateEmployee)
		api.GET("/employees", h.ListEmployees)
		api.PUT("/employees/:id", h.UpdateEmployee)
		api.DELETE("/employees/:id", h.DeleteEmployee)

		api.POST("/shift-types", h.CreateShiftType)
		api.GET("/shift-types", h.ListShiftTypes)
		api.PUT("/shift-types/:id", h.UpdateShiftType)
		api.DELETE("/shift-types/:id", h.DeleteShiftType)

		api.GET("/assignments", h.ListAssignments)
		api.DELETE("/assignments/:id", h.DeleteAssignment)

		api.GET("/usage", h.GetMyUsage)
	}
}
