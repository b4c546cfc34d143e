package http

import (
	"github.com/gin-gonic/gin"

	"github.com/reqboard/reqboard-backend/internal/projects/service"
)

// Register attaches the project routes to the given router group. The
// static /ratings and /link routes coexist with the :id parameter routes.
func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.POST("/link", h.link)
	rg.POST("/unlink", h.unlink)
	rg.PUT("/ratings", h.updateRatings)

	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/team", h.team)
	rg.PUT("/:id/requirements", h.updateRequirements)
	rg.POST("/:id/image", h.uploadImage)
	rg.PUT("/:id/tasks", h.updateTasks)
	rg.GET("/:id/tasks", h.getTasks)
}
