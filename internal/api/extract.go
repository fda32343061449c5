package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

// ExtractHandler handles recipe ingestion requests
type ExtractHandler struct {
	extractService *service.ExtractService
	authService    middleware.TokenValidator
}

// NewExtractHandler creates a new ExtractHandler instance
func NewExtractHandler(extractService *service.ExtractService, authService middleware.TokenValidator) *ExtractHandler {
	return &ExtractHandler{
		extractService: extractService,
		authService:    authService,
	}
}

// RegisterRoutes registers the ingestion routes
func (h *ExtractHandler) RegisterRoutes(router *gin.RouterGroup, maxUploadBytes int64) {
	router.POST("/recipes/extract",
		middleware.AuthMiddleware(h.authService),
		middleware.BodyLimit(maxUploadBytes),
		h.Extract,
	)
}

// Extract accepts a multipart submission with exactly one of {url},
// {url + social flag}, {image file} and responds with the draft record.
func (h *ExtractHandler) Extract(c *gin.Context) {
	req := &service.ExtractionRequest{
		URL:    c.PostForm("url"),
		Social: c.PostForm("social") == "true",
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		defer func() { _ = src.Close() }()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}

		req.Image = &service.ImageAsset{
			Data:      data,
			MediaType: file.Header.Get("Content-Type"),
			FileName:  file.Filename,
		}
	}

	if req.URL != "" && req.Image != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide either a url or an image, not both"})
		return
	}

	draft, err := h.extractService.Extract(c.Request.Context(), req)
	if err != nil {
		h.renderExtractError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// renderExtractError maps pipeline failures onto user-safe responses.
// Internal detail stays in server logs.
func (h *ExtractHandler) renderExtractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoExtractionInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "neither url nor image provided"})
	case errors.Is(err, service.ErrNoCaption):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipe content found in the post"})
	case errors.Is(err, service.ErrConversionFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process HEIC image. Please try converting it to JPEG first."})
	default:
		log.Printf("[ExtractHandler] extraction failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract recipe"})
	}
}
