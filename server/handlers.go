package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelmint/pixelmint/client"
	"github.com/pixelmint/pixelmint/models"
)

// generateRequest is the JSON body of POST /api/generate.
type generateRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	AspectRatio string `json:"aspect_ratio" binding:"required,aspectratio"`
	Count       int    `json:"count" binding:"omitempty,min=1,max=4"`
	Model       string `json:"model"`
}

type imagePayload struct {
	// URL is a data URL carrying the base64-encoded image bytes, usable
	// directly as an <img> source or a download link.
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}

type generateResponse struct {
	Created  int64          `json:"created"`
	Provider string         `json:"provider"`
	Images   []imagePayload `json:"images"`
}

// errorResponse mirrors the error envelope the hosted APIs use themselves.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errorDetail{
			Message: err.Error(),
			Type:    "invalid_request",
		}})
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	input := models.ImageGenerationInput{
		Prompt:      req.Prompt,
		AspectRatio: models.AspectRatio(req.AspectRatio),
		Count:       req.Count,
		Model:       req.Model,
	}
	if input.Model == "" {
		input.Model = s.defaultModel
	}

	resp, err := s.generator.GenerateImages(c.Request.Context(), input)
	if err != nil {
		genErr := client.Classify(err)
		c.JSON(statusForCategory(genErr.Category), errorResponse{Error: errorDetail{
			Message: genErr.Error(),
			Type:    string(genErr.Category),
		}})
		return
	}

	images := make([]imagePayload, len(resp.Images))
	for i, img := range resp.Images {
		images[i] = imagePayload{
			URL:      img.DataURL(),
			MIMEType: img.MIMEType,
		}
	}

	c.JSON(http.StatusOK, generateResponse{
		Created:  time.Now().Unix(),
		Provider: resp.Provider,
		Images:   images,
	})
}

// statusForCategory maps the fixed error categories onto HTTP statuses.
func statusForCategory(category client.ErrorCategory) int {
	switch category {
	case client.CategoryInvalidKey:
		return http.StatusUnauthorized
	case client.CategoryQuota:
		return http.StatusTooManyRequests
	case client.CategorySafety:
		return http.StatusBadRequest
	case client.CategoryNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
