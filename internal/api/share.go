package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

type ShareHandler struct {
	shareService *service.ShareService
	authService  middleware.TokenValidator
}

func NewShareHandler(shareService *service.ShareService, authService middleware.TokenValidator) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		authService:  authService,
	}
}

func (h *ShareHandler) RegisterRoutes(router *gin.RouterGroup) {
	shares := router.Group("/shares")
	{
		shares.POST("", middleware.AuthMiddleware(h.authService), h.CreateShare)
		shares.POST("/:hash/regenerate", middleware.AuthMiddleware(h.authService), h.RegenerateShare)
		shares.GET("/:hash", middleware.OptionalAuthMiddleware(h.authService), h.ResolveShare)
		shares.GET("/:hash/preview", h.Preview)
	}
}

func (h *ShareHandler) CreateShare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	share, err := h.shareService.CreateShare(c.Request.Context(), userID, req.RecipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create share link"})
		return
	}

	c.JSON(http.StatusOK, share)
}

func (h *ShareHandler) RegenerateShare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	share, err := h.shareService.RegenerateShare(c.Request.Context(), userID, c.Param("hash"))
	if err != nil {
		if errors.Is(err, service.ErrShareNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate share link"})
		return
	}

	c.JSON(http.StatusOK, share)
}

// ResolveShare returns the full shared recipe. Expired links are rejected
// for everyone but the creator, who gets through to regenerate.
func (h *ShareHandler) ResolveShare(c *gin.Context) {
	var viewer *uuid.UUID
	if userID, ok := currentUserID(c); ok {
		viewer = &userID
	}

	share, recipe, err := h.shareService.ResolveShare(c.Request.Context(), c.Param("hash"), viewer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShareNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
		case errors.Is(err, service.ErrShareExpired):
			c.JSON(http.StatusGone, gin.H{"error": "This share link has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shared recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"share": share, "recipe": recipe})
}

// Preview serves title/description/image to unauthenticated viewers, for
// link unfurls.
func (h *ShareHandler) Preview(c *gin.Context) {
	preview, err := h.shareService.Preview(c.Request.Context(), c.Param("hash"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShareNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
		case errors.Is(err, service.ErrShareExpired):
			c.JSON(http.StatusGone, gin.H{"error": "This share link has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load share preview"})
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}
