package model

import (
	"time"

	"github.com/google/uuid"
)

// SharedRecipe grants time-limited public read access to one recipe
// through a short opaque hash. At most one row exists per
// (recipe, creator) pair; regeneration rewrites the row in place.
type SharedRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ShareHash string    `gorm:"size:21;not null;uniqueIndex" json:"share_hash"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_share_recipe_creator" json:"recipe_id"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_share_recipe_creator" json:"created_by"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (SharedRecipe) TableName() string {
	return "shared_recipes"
}

// Expired reports whether the link is past its expiry at the given instant.
func (s *SharedRecipe) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
