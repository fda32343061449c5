package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
	authService       middleware.TokenValidator
}

func NewCollectionHandler(collectionService *service.CollectionService, authService middleware.TokenValidator) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		authService:       authService,
	}
}

func (h *CollectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	collections := router.Group("/collections", middleware.AuthMiddleware(h.authService))
	{
		collections.GET("", h.ListCollections)
		collections.POST("", h.CreateCollection)
		collections.DELETE("/:id", h.DeleteCollection)
		collections.GET("/:id/recipes", h.ListMembers)
		collections.PUT("/:id/recipes", h.ReconcileMembership)
	}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collections, err := h.collectionService.ListCollections(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.CreateCollection(c.Request.Context(), userID, req.Name, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCollection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection"})
		return
	}

	c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	if err := h.collectionService.DeleteCollection(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete collection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully", "id": id})
}

func (h *CollectionHandler) ListMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	recipes, err := h.collectionService.ListMembers(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// ReconcileMembership replaces the collection's membership with the
// desired recipe set.
func (h *CollectionHandler) ReconcileMembership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req struct {
		RecipeIDs []uuid.UUID `json:"recipe_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, removed, err := h.collectionService.ReconcileMembership(c.Request.Context(), userID, id, req.RecipeIDs)
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update collection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "removed": removed})
}
