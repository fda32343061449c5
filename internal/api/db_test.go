package api

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	statements := []string{
		`CREATE TABLE recipes (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			ingredients TEXT NOT NULL DEFAULT '[]',
			steps TEXT NOT NULL DEFAULT '[]',
			image_url TEXT,
			image_source_url TEXT,
			meal_type TEXT,
			cuisine TEXT,
			is_favorite BOOLEAN NOT NULL DEFAULT 0,
			user_id TEXT NOT NULL
		);`,
		`CREATE TABLE collections (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			name TEXT NOT NULL,
			image_url TEXT,
			user_id TEXT NOT NULL
		);`,
		`CREATE TABLE collection_recipes (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			collection_id TEXT NOT NULL,
			recipe_id TEXT NOT NULL,
			UNIQUE(collection_id, recipe_id)
		);`,
		`CREATE TABLE shared_recipes (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			share_hash TEXT NOT NULL UNIQUE,
			recipe_id TEXT NOT NULL,
			created_by TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			UNIQUE(recipe_id, created_by)
		);`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create table: %v", err)
		}
	}
	return db
}

func seedHandlerRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		ID:          uuid.New(),
		Title:       "Shakshuka",
		Description: "Eggs poached in spiced tomato sauce",
		Ingredients: model.JSONBStringArray{"4 eggs"},
		Steps:       model.JSONBStringArray{"Poach the eggs"},
		UserID:      userID,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
