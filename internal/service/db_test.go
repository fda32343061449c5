package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupServiceDB opens an in-memory database with the tables the
// consistency layer touches. Services assign IDs themselves, so the
// server-side uuid defaults are not needed here.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`,
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
