package router

import (
	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	collectionHandler *api.CollectionHandler,
	shareHandler *api.ShareHandler,
	extractHandler *api.ExtractHandler,
	maxUploadBytes int64,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	collectionHandler.RegisterRoutes(v1)
	shareHandler.RegisterRoutes(v1)
	extractHandler.RegisterRoutes(v1, maxUploadBytes)

	return router
}
