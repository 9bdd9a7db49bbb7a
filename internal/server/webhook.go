package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type triggerWebhookRequest struct {
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

func (s *Server) TriggerUploadWebhook(c *gin.Context) {
	var req triggerWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		AbortWithError(c, newValidationError("file_url", "invalid_file_url", "file_url is required"))
		return
	}

	if err := s.trigger.Send(c.Request.Context(), req.FileURL, req.FileType); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "triggered"})
}
