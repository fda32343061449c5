package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/model"
)

func TestCollectionService_CreateCollection(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCollectionService(db)
	userID := uuid.New()

	t.Run("should create with a trimmed name", func(t *testing.T) {
		created, err := svc.CreateCollection(context.Background(), userID, "  Weeknight Dinners  ", nil)
		require.NoError(t, err)
		assert.Equal(t, "Weeknight Dinners", created.Name)
		assert.Equal(t, userID, created.UserID)
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		_, err := svc.CreateCollection(context.Background(), userID, "   ", nil)
		assert.ErrorIs(t, err, ErrInvalidCollection)
	})
}

func TestCollectionService_ListCollections(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCollectionService(db)
	userID := uuid.New()

	_, err := svc.CreateCollection(context.Background(), userID, "Weeknight", nil)
	require.NoError(t, err)
	_, err = svc.CreateCollection(context.Background(), uuid.New(), "Someone else's", nil)
	require.NoError(t, err)

	collections, err := svc.ListCollections(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "Weeknight", collections[0].Name)
}

func TestCollectionService_ReconcileMembership(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCollectionService(db)
	userID := uuid.New()

	collection, err := svc.CreateCollection(context.Background(), userID, "Weeknight", nil)
	require.NoError(t, err)

	a := seedRecipe(t, db, userID)
	b := seedRecipe(t, db, userID)
	c := seedRecipe(t, db, userID)

	memberIDs := func(t *testing.T) map[uuid.UUID]bool {
		t.Helper()
		members, err := svc.ListMembers(context.Background(), userID, collection.ID)
		require.NoError(t, err)
		set := make(map[uuid.UUID]bool, len(members))
		for _, m := range members {
			set[m.ID] = true
		}
		return set
	}

	t.Run("should add all desired recipes to an empty collection", func(t *testing.T) {
		added, removed, err := svc.ReconcileMembership(context.Background(), userID, collection.ID, []uuid.UUID{a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Equal(t, 0, removed)
		assert.Equal(t, map[uuid.UUID]bool{a.ID: true, b.ID: true}, memberIDs(t))
	})

	t.Run("should apply mixed additions and removals", func(t *testing.T) {
		added, removed, err := svc.ReconcileMembership(context.Background(), userID, collection.ID, []uuid.UUID{b.ID, c.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, 1, removed)
		assert.Equal(t, map[uuid.UUID]bool{b.ID: true, c.ID: true}, memberIDs(t))
	})

	t.Run("should be a no-op when desired matches current", func(t *testing.T) {
		added, removed, err := svc.ReconcileMembership(context.Background(), userID, collection.ID, []uuid.UUID{b.ID, c.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, added)
		assert.Equal(t, 0, removed)
	})

	t.Run("should empty the collection for an empty desired set", func(t *testing.T) {
		added, removed, err := svc.ReconcileMembership(context.Background(), userID, collection.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, added)
		assert.Equal(t, 2, removed)
		assert.Empty(t, memberIDs(t))
	})

	t.Run("should reject reconciliation by non-owners", func(t *testing.T) {
		_, _, err := svc.ReconcileMembership(context.Background(), uuid.New(), collection.ID, []uuid.UUID{a.ID})
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})
}

func TestCollectionService_DeleteCollection(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCollectionService(db)
	recipeSvc := NewRecipeService(db, nil)
	userID := uuid.New()

	collection, err := svc.CreateCollection(context.Background(), userID, "Weeknight", nil)
	require.NoError(t, err)
	recipe := seedRecipe(t, db, userID)
	_, _, err = svc.ReconcileMembership(context.Background(), userID, collection.ID, []uuid.UUID{recipe.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCollection(context.Background(), userID, collection.ID))

	_, err = svc.ListMembers(context.Background(), userID, collection.ID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	var memberships int64
	require.NoError(t, db.Model(&model.CollectionRecipe{}).Where("collection_id = ?", collection.ID).Count(&memberships).Error)
	assert.Zero(t, memberships)

	// The recipe itself survives collection deletion.
	got, err := recipeSvc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)
}
