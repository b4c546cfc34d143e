package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// uploadImage attaches a multipart image to the project. Content type and
// size are taken as-is; a previously attached image stays in the bucket.
func (h *Handler) uploadImage(c *gin.Context) {
	projectID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil || projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File and projectId are required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.fail(c, "upload_image", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, "upload_image", err)
		return
	}

	url, err := h.svc.AttachImage(
		c.Request.Context(),
		projectID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.fail(c, "upload_image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
}
