package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCharacters(store *mocks.Store, ids ...string) {
	for _, id := range ids {
		store.Characters[id] = &entities.Character{
			ID:        id,
			Name:      "character " + id,
			SeriesID:  "classic",
			CreatedAt: time.Now(),
		}
	}
}

func TestRelationshipService_AddEdge(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a directed edge", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1", "char-2")
		svc := NewRelationshipService(store)

		edge, err := svc.AddEdge(ctx, "char-1", "char-2", "rival", "long standing")
		require.NoError(t, err)
		assert.NotEmpty(t, edge.ID)
		assert.Equal(t, "char-1", edge.SourceCharacterID)
		assert.Equal(t, "char-2", edge.TargetCharacterID)
		assert.Equal(t, "rival", edge.Type)
		assert.Len(t, store.Edges, 1)
	})

	t.Run("rejects a self edge without touching the store", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-1", "rival", "")
		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Empty(t, store.Edges)
	})

	t.Run("rejects a blank type", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1", "char-2")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-2", "   ", "")
		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("unknown endpoints fail with not found", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "ghost", "ally", "")
		var notFound *errs.NotFoundError
		require.ErrorAs(t, err, &notFound)

		_, err = svc.AddEdge(ctx, "ghost", "char-1", "ally", "")
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("same pair and type conflicts in either direction", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1", "char-2")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-2", "rival", "")
		require.NoError(t, err)

		_, err = svc.AddEdge(ctx, "char-2", "char-1", "rival", "")
		var conflict *errs.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, store.Edges, 1)
	})

	t.Run("different type between the same pair is allowed", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1", "char-2")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-2", "rival", "")
		require.NoError(t, err)
		_, err = svc.AddEdge(ctx, "char-1", "char-2", "ally", "")
		require.NoError(t, err)
		assert.Len(t, store.Edges, 2)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		store := mocks.NewStore()
		store.Err = errors.New("db down")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-2", "rival", "")
		require.Error(t, err)
	})
}

func TestRelationshipService_EdgesForCharacter(t *testing.T) {
	ctx := context.Background()

	t.Run("direction reflects the character's role", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1", "char-2", "char-3")
		svc := NewRelationshipService(store)

		_, err := svc.AddEdge(ctx, "char-1", "char-2", "creator", "")
		require.NoError(t, err)
		_, err = svc.AddEdge(ctx, "char-3", "char-1", "rival", "")
		require.NoError(t, err)

		edges, err := svc.EdgesForCharacter(ctx, "char-1")
		require.NoError(t, err)
		require.Len(t, edges, 2)

		byType := make(map[string]entities.CharacterEdge)
		for _, e := range edges {
			byType[e.Type] = e
		}
		creator := byType["creator"]
		assert.Equal(t, entities.DirectionOutgoing, creator.Direction)
		require.NotNil(t, creator.Character)
		assert.Equal(t, "char-2", creator.Character.ID)

		rival := byType["rival"]
		assert.Equal(t, entities.DirectionIncoming, rival.Direction)
		require.NotNil(t, rival.Character)
		assert.Equal(t, "char-3", rival.Character.ID)
	})

	t.Run("unknown character fails with not found", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewRelationshipService(store)

		_, err := svc.EdgesForCharacter(ctx, "ghost")
		var notFound *errs.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("character with no edges gets an empty slice", func(t *testing.T) {
		store := mocks.NewStore()
		seedCharacters(store, "char-1")
		svc := NewRelationshipService(store)

		edges, err := svc.EdgesForCharacter(ctx, "char-1")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})
}

func TestRelationshipService_RemoveEdge(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	seedCharacters(store, "char-1", "char-2")
	svc := NewRelationshipService(store)

	edge, err := svc.AddEdge(ctx, "char-1", "char-2", "rival", "")
	require.NoError(t, err)

	t.Run("removes an existing edge", func(t *testing.T) {
		require.NoError(t, svc.RemoveEdge(ctx, edge.ID))
		assert.Empty(t, store.Edges)
	})

	t.Run("removing again fails with not found", func(t *testing.T) {
		err := svc.RemoveEdge(ctx, edge.ID)
		var notFound *errs.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}
