package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/phocus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRemappingStoreContract runs a suite of tests to verify that a RemappingStore
// implementation adheres to the defined interface contract.
func RunRemappingStoreContract(t *testing.T, store RemappingStore) {
	ctx := context.Background()
	profile := "contract-test-profile-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		remaps := []domain.Remapping{
			{Action: "logout", Mapping: "Control+q"},
			{Action: "save", Mapping: "Control+w"},
		}

		err := store.Save(ctx, profile, remaps)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, remaps, loaded, "Order and content must survive a round trip")
	})

	t.Run("Save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, []domain.Remapping{{Action: "save", Mapping: "F2"}}))

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, []domain.Remapping{{Action: "save", Mapping: "F2"}}, loaded)
	})

	t.Run("Save empty", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, []domain.Remapping{}))

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, profile, []domain.Remapping{{Action: "logout", Mapping: "Control+q"}})
		require.NoError(t, err)

		err = store.Delete(ctx, profile)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound, "Load after Delete should return ErrProfileNotFound")

		assert.NoError(t, store.Delete(ctx, profile), "Deleting twice should not fail")
	})

	t.Run("Names that look like store internals", func(t *testing.T) {
		names := []string{"index", profile + ".json"}
		for i, name := range names {
			require.NoError(t, store.Save(ctx, name, []domain.Remapping{{Action: "save", Mapping: fmt.Sprintf("F%d", i+1)}}), name)
		}
		defer func() {
			for _, name := range names {
				_ = store.Delete(ctx, name)
			}
		}()

		for i, name := range names {
			loaded, err := store.Load(ctx, name)
			require.NoError(t, err, name)
			assert.Equal(t, []domain.Remapping{{Action: "save", Mapping: fmt.Sprintf("F%d", i+1)}}, loaded, name)
		}

		require.NoError(t, store.Save(ctx, profile, []domain.Remapping{{Action: "logout", Mapping: "F9"}}))
		profiles, err := store.List(ctx)
		require.NoError(t, err)
		for _, name := range append(names, profile) {
			assert.Contains(t, profiles, name)
		}
	})

	t.Run("List", func(t *testing.T) {
		id1 := profile + "-1"
		id2 := profile + "-2"
		_ = store.Save(ctx, id1, []domain.Remapping{{Action: "a", Mapping: "b"}})
		_ = store.Save(ctx, id2, []domain.Remapping{{Action: "c", Mapping: "d"}})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		profiles, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, profiles, id1)
		assert.Contains(t, profiles, id2)
	})
}
