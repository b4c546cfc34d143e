package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
)

func (h *Handler) updateTasks(c *gin.Context) {
	var req tasksReq
	if err := c.ShouldBindJSON(&req); err != nil || req.RequirementType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	err := h.svc.UpdateTasks(c.Request.Context(), c.Param("id"), req.RequirementType, req.ElementID, req.Tasks)
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrInvalidRequirementType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requirementType"})
	case err != nil:
		h.fail(c, "update_tasks", err)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h *Handler) getTasks(c *gin.Context) {
	requirementType := c.Query("requirementType")
	elementID := c.Query("elementId")
	if requirementType == "" || elementID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requirementType and elementId are required"})
		return
	}

	tasks, err := h.svc.GetTasks(c.Request.Context(), c.Param("id"), requirementType, elementID)
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrInvalidRequirementType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requirementType"})
	case err != nil:
		h.fail(c, "get_tasks", err)
	default:
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	}
}
