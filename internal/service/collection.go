package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidCollection  = errors.New("collection name is required")
)

// CollectionService handles collection operations and membership
// reconciliation.
type CollectionService struct {
	db *gorm.DB
}

// NewCollectionService creates a new CollectionService instance
func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// CreateCollection creates a new collection owned by userID.
func (s *CollectionService) CreateCollection(ctx context.Context, userID uuid.UUID, name string, imageURL *string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCollection
	}
	collection := &model.Collection{
		ID:       uuid.New(),
		Name:     name,
		ImageURL: imageURL,
		UserID:   userID,
	}
	if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// ListCollections lists collections owned by userID.
func (s *CollectionService) ListCollections(ctx context.Context, userID uuid.UUID) ([]model.Collection, error) {
	var collections []model.Collection
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

// ListMembers returns the recipes currently in an owned collection.
func (s *CollectionService) ListMembers(ctx context.Context, userID, collectionID uuid.UUID) ([]model.Recipe, error) {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN collection_recipes ON collection_recipes.recipe_id = recipes.id").
		Where("collection_recipes.collection_id = ?", collectionID).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteCollection removes an owned collection and cascades its
// memberships. The referenced recipes are untouched.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.CollectionRecipe{}, "collection_id = ?", collectionID).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Collection{}, "id = ?", collectionID).Error
}

// ReconcileMembership brings a collection's membership to the desired set
// of recipe IDs. It computes additions and removals against the current
// set and applies them sequentially; a zero-diff call is a no-op.
func (s *CollectionService) ReconcileMembership(ctx context.Context, userID, collectionID uuid.UUID, desired []uuid.UUID) (added, removed int, err error) {
	if _, err = s.ownedCollection(ctx, userID, collectionID); err != nil {
		return 0, 0, err
	}

	var current []model.CollectionRecipe
	if err = s.db.WithContext(ctx).Where("collection_id = ?", collectionID).Find(&current).Error; err != nil {
		return 0, 0, err
	}

	desiredSet := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, m := range current {
		currentSet[m.RecipeID] = true
	}

	for _, m := range current {
		if desiredSet[m.RecipeID] {
			continue
		}
		if err = s.db.WithContext(ctx).Delete(&model.CollectionRecipe{}, "collection_id = ? AND recipe_id = ?", collectionID, m.RecipeID).Error; err != nil {
			return added, removed, err
		}
		removed++
	}

	for _, id := range desired {
		if currentSet[id] {
			continue
		}
		membership := model.CollectionRecipe{
			ID:           uuid.New(),
			CollectionID: collectionID,
			RecipeID:     id,
		}
		if err = s.db.WithContext(ctx).Create(&membership).Error; err != nil {
			return added, removed, err
		}
		added++
	}

	return added, removed, nil
}

func (s *CollectionService) ownedCollection(ctx context.Context, userID, collectionID uuid.UUID) (*model.Collection, error) {
	var collection model.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ? AND user_id = ?", collectionID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}
