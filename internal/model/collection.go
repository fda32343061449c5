package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Collection struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	ImageURL  *string        `gorm:"size:512" json:"image_url"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
}

// CollectionRecipe is the membership join row between collections and recipes.
type CollectionRecipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_collection_recipe" json:"collection_id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_collection_recipe" json:"recipe_id"`
}

func (CollectionRecipe) TableName() string {
	return "collection_recipes"
}
