package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRecipe  = errors.New("recipe title and description are required")
)

// AssetRemover deletes a stored asset by its public address.
type AssetRemover interface {
	RemoveImage(ctx context.Context, imageURL string) error
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	assets AssetRemover
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, assets AssetRemover) *RecipeService {
	return &RecipeService{
		db:     db,
		assets: assets,
	}
}

// sanitize enforces the write invariant: ingredient and step arrays never
// contain blank or whitespace-only entries.
func sanitize(recipe *model.Recipe) error {
	recipe.Ingredients = CleanLines(recipe.Ingredients)
	recipe.Steps = CleanLines(recipe.Steps)
	if recipe.Title == "" || recipe.Description == "" {
		return ErrInvalidRecipe
	}
	return nil
}

// CreateRecipe creates a new recipe owned by userID.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	recipe.ID = uuid.New()
	recipe.UserID = userID
	if err := sanitize(recipe); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes lists recipes owned by userID, optionally only favorites.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, favoritesOnly bool) ([]model.Recipe, error) {
	var recipes []model.Recipe
	query := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if favoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateRecipe updates an owned recipe in place.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	existing, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.Title = recipe.Title
	existing.Description = recipe.Description
	existing.Ingredients = recipe.Ingredients
	existing.Steps = recipe.Steps
	existing.ImageURL = recipe.ImageURL
	existing.ImageSourceURL = recipe.ImageSourceURL
	existing.MealType = recipe.MealType
	existing.Cuisine = recipe.Cuisine
	if err := sanitize(existing); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteRecipe removes an owned recipe along with its memberships, share
// links and stored image asset. Best effort sequential, not transactional.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.CollectionRecipe{}, "recipe_id = ?", id).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.SharedRecipe{}, "recipe_id = ?", id).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return err
	}

	if recipe.ImageURL != nil && s.assets != nil {
		if err := s.assets.RemoveImage(ctx, *recipe.ImageURL); err != nil {
			log.Printf("[RecipeService] failed to remove asset for recipe %s: %v", id, err)
		}
	}
	return nil
}

// SetFavorite writes an explicit boolean on an owned recipe. Safe to
// invoke repeatedly; every call persists a write.
func (s *RecipeService) SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error {
	result := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_favorite", favorite)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
