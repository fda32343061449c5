package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

const (
	// ShareWindow is the lifetime of a share link from mint or regenerate.
	ShareWindow = 30 * 24 * time.Hour
	// shareHashLength is the fixed length of the opaque share token.
	shareHashLength = 10

	previewCacheTTL = time.Hour
)

var (
	ErrShareNotFound = errors.New("share link not found")
	ErrShareExpired  = errors.New("share link has expired")
)

// SharePreview is the unauthenticated metadata slice of a shared recipe.
type SharePreview struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// ShareService manages the share-link lifecycle: none, active, expired.
type ShareService struct {
	db    *gorm.DB
	redis *redis.Client
	now   func() time.Time
}

// NewShareService creates a new ShareService instance. The redis client is
// optional; without it preview lookups always hit the database.
func NewShareService(db *gorm.DB, redisClient *redis.Client) *ShareService {
	return &ShareService{
		db:    db,
		redis: redisClient,
		now:   time.Now,
	}
}

// CreateShare returns the share link for (recipe, creator). While a link
// is active the existing hash is reused with no mutation; an expired or
// missing link gets a fresh hash and a full expiry window.
func (s *ShareService) CreateShare(ctx context.Context, userID, recipeID uuid.UUID) (*model.SharedRecipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", recipeID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var share model.SharedRecipe
	err := s.db.WithContext(ctx).First(&share, "recipe_id = ? AND created_by = ?", recipeID, userID).Error
	switch {
	case err == nil:
		if !share.Expired(s.now()) {
			return &share, nil
		}
		return s.refresh(ctx, &share)
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := mintShareHash()
		if err != nil {
			return nil, err
		}
		share = model.SharedRecipe{
			ID:        uuid.New(),
			ShareHash: hash,
			RecipeID:  recipeID,
			CreatedBy: userID,
			ExpiresAt: s.now().Add(ShareWindow),
		}
		if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
			return nil, err
		}
		return &share, nil
	default:
		return nil, err
	}
}

// RegenerateShare mints a new hash and expiry for an expired link. Only
// the creator may regenerate; the old hash stops resolving.
func (s *ShareService) RegenerateShare(ctx context.Context, userID uuid.UUID, hash string) (*model.SharedRecipe, error) {
	var share model.SharedRecipe
	if err := s.db.WithContext(ctx).First(&share, "share_hash = ? AND created_by = ?", hash, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	return s.refresh(ctx, &share)
}

// ResolveShare returns the share row and its recipe for a hash. After
// expiry, reads are rejected for everyone but the creator, who still gets
// through so they can regenerate.
func (s *ShareService) ResolveShare(ctx context.Context, hash string, viewer *uuid.UUID) (*model.SharedRecipe, *model.Recipe, error) {
	var share model.SharedRecipe
	if err := s.db.WithContext(ctx).First(&share, "share_hash = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrShareNotFound
		}
		return nil, nil, err
	}

	if share.Expired(s.now()) && (viewer == nil || *viewer != share.CreatedBy) {
		return nil, nil, ErrShareExpired
	}

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", share.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrShareNotFound
		}
		return nil, nil, err
	}
	return &share, &recipe, nil
}

// Preview returns the title/description/image slice of a shared recipe
// for unauthenticated viewers, served from Redis when possible.
func (s *ShareService) Preview(ctx context.Context, hash string) (*SharePreview, error) {
	key := fmt.Sprintf("share:preview:%s", hash)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var preview SharePreview
			if err := json.Unmarshal(data, &preview); err == nil {
				return &preview, nil
			}
		}
	}

	share, recipe, err := s.ResolveShare(ctx, hash, nil)
	if err != nil {
		return nil, err
	}

	preview := &SharePreview{
		Title:       recipe.Title,
		Description: recipe.Description,
		ImageURL:    recipe.ImageURL,
	}

	if s.redis != nil {
		ttl := previewCacheTTL
		if remaining := time.Until(share.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
		if ttl > 0 {
			data, err := json.Marshal(preview)
			if err == nil {
				if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
					log.Printf("[ShareService] failed to cache preview for %s: %v", hash, err)
				}
			}
		}
	}

	return preview, nil
}

// refresh mints a new hash and resets the expiry window in place, and
// drops any cached preview for the old hash.
func (s *ShareService) refresh(ctx context.Context, share *model.SharedRecipe) (*model.SharedRecipe, error) {
	oldHash := share.ShareHash

	hash, err := mintShareHash()
	if err != nil {
		return nil, err
	}
	share.ShareHash = hash
	share.ExpiresAt = s.now().Add(ShareWindow)
	if err := s.db.WithContext(ctx).Save(share).Error; err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, fmt.Sprintf("share:preview:%s", oldHash)).Err(); err != nil {
			log.Printf("[ShareService] failed to evict preview cache for %s: %v", oldHash, err)
		}
	}
	return share, nil
}

func mintShareHash() (string, error) {
	hash, err := gonanoid.New(shareHashLength)
	if err != nil {
		return "", fmt.Errorf("failed to mint share hash: %w", err)
	}
	return hash, nil
}
