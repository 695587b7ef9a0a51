package services

import (
	"context"
	"testing"

	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an active key", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewAPIKeyService(store)

		key, err := svc.Save(ctx, "user-1", "openai", "sk-123")
		require.NoError(t, err)
		assert.Equal(t, "user-1", key.UserID)
		assert.Equal(t, "openai", key.ServiceName)
		assert.Equal(t, "sk-123", key.Key)
		assert.True(t, key.IsActive)
		assert.Len(t, store.APIKeys, 1)
	})

	t.Run("saving the same service again replaces the value", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewAPIKeyService(store)

		first, err := svc.Save(ctx, "user-1", "openai", "sk-old")
		require.NoError(t, err)
		require.NoError(t, svc.SetActive(ctx, "user-1", first.ID, false))

		second, err := svc.Save(ctx, "user-1", "openai", "sk-new")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "sk-new", second.Key)
		assert.True(t, second.IsActive)
		assert.Len(t, store.APIKeys, 1)
	})

	t.Run("distinct services get distinct rows", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewAPIKeyService(store)

		_, err := svc.Save(ctx, "user-1", "openai", "sk-1")
		require.NoError(t, err)
		_, err = svc.Save(ctx, "user-1", "anthropic", "sk-2")
		require.NoError(t, err)
		assert.Len(t, store.APIKeys, 2)
	})

	t.Run("validation", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewAPIKeyService(store)

		cases := []struct {
			name                     string
			userID, serviceName, key string
		}{
			{"anonymous caller", "", "openai", "sk-1"},
			{"blank service name", "user-1", "  ", "sk-1"},
			{"blank key", "user-1", "openai", " "},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Save(ctx, tc.userID, tc.serviceName, tc.key)
				var validation *errs.ValidationError
				require.ErrorAs(t, err, &validation)
			})
		}
		assert.Empty(t, store.APIKeys)
	})
}

func TestAPIKeyService_List(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := NewAPIKeyService(store)

	_, err := svc.Save(ctx, "user-1", "openai", "sk-1")
	require.NoError(t, err)
	_, err = svc.Save(ctx, "user-2", "openai", "sk-2")
	require.NoError(t, err)

	t.Run("only the caller's keys", func(t *testing.T) {
		keys, err := svc.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.Equal(t, "sk-1", keys[0].Key)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		_, err := svc.List(ctx, "")
		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
	})
}

func TestAPIKeyService_DeleteAndToggle(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := NewAPIKeyService(store)

	key, err := svc.Save(ctx, "user-1", "openai", "sk-1")
	require.NoError(t, err)

	t.Run("another user's key reads as missing", func(t *testing.T) {
		var notFound *errs.NotFoundError
		require.ErrorAs(t, svc.Delete(ctx, "user-2", key.ID), &notFound)
		require.ErrorAs(t, svc.SetActive(ctx, "user-2", key.ID, false), &notFound)
	})

	t.Run("owner deactivates and deletes", func(t *testing.T) {
		require.NoError(t, svc.SetActive(ctx, "user-1", key.ID, false))
		assert.False(t, store.APIKeys[key.ID].IsActive)

		require.NoError(t, svc.Delete(ctx, "user-1", key.ID))
		assert.Empty(t, store.APIKeys)

		var notFound *errs.NotFoundError
		require.ErrorAs(t, svc.Delete(ctx, "user-1", key.ID), &notFound)
	})
}
