package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reqboard/reqboard-backend/internal/auth"
	"github.com/reqboard/reqboard-backend/internal/projects/domain"
	"github.com/reqboard/reqboard-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

// list resolves the projects linked to the userId query parameter.
func (h *Handler) list(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UserId is required"})
		return
	}

	projects, err := h.svc.ListProjects(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "list_projects", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// get returns the fixed-shape projection of one project. There is no 404
// path here; a missing document surfaces as a server error.
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	id, err := h.svc.CreateProject(c.Request.Context(), fields)
	if err != nil {
		h.fail(c, "create_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project_added": true,
		"id":            id,
		"descripcion":   fields["descripcion"],
		"estatus":       fields["estatus"],
	})
}

// update merges a partial update and answers with the audit entry it
// produced. The acting user must be present so the entry can be
// attributed.
func (h *Handler) update(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user context"})
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	id := c.Param("id")
	mod, err := h.svc.UpdateProject(c.Request.Context(), id, updates, domain.Actor{UserID: userID})
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		h.fail(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project_updated": true,
		"id":              id,
		"modification":    mod,
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_deleted": true})
}

func (h *Handler) link(c *gin.Context) {
	var req linkReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UserID and ProjectID are required"})
		return
	}

	if err := h.svc.LinkUser(c.Request.Context(), *req.UserID, req.ProjectID); err != nil {
		h.fail(c, "link_user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "¡Usuario vinculado al proyecto exitosamente!"})
}

func (h *Handler) unlink(c *gin.Context) {
	var req linkReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UserID and ProjectID are required"})
		return
	}

	if err := h.svc.UnlinkUser(c.Request.Context(), *req.UserID, req.ProjectID); err != nil {
		h.fail(c, "unlink_user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "¡Usuario desvinculado del proyecto exitosamente!"})
}

func (h *Handler) team(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ProjectID is required"})
		return
	}

	members, err := h.svc.TeamMembers(c.Request.Context(), projectID)
	if err != nil {
		h.fail(c, "team_members", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "teamMembers": members})
}

func (h *Handler) updateRequirements(c *gin.Context) {
	var req requirementsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.svc.UpdateRequirements(c.Request.Context(), req.Requirements); err != nil {
		h.fail(c, "update_requirements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Requerimientos actualizados correctamente"})
}

func (h *Handler) updateRatings(c *gin.Context) {
	var req ratingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.svc.UpdateRatings(c.Request.Context(), req.Ratings); err != nil {
		h.fail(c, "update_ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Valoraciones actualizadas correctamente"})
}

// fail logs the store failure server-side and answers with a generic
// message, with no transient/permanent distinction and no retries.
func (h *Handler) fail(c *gin.Context, operation string, err error) {
	log.Printf("[error] operation=%s path=%s error=%v", operation, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
}
