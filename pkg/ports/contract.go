package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	name := "contract-test-schema-" + time.Now().Format("20060102150405")

	t.Run("Save and Get", func(t *testing.T) {
		def := []byte("type: number\nmin: 0\n")

		err := store.Save(ctx, name, def)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Get(ctx, name)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, def, loaded)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		err := store.Save(ctx, name, []byte("type: string"))
		require.NoError(t, err)

		loaded, err := store.Get(ctx, name)
		require.NoError(t, err)
		loaded[0] = 'X'

		again, err := store.Get(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte("type: string"), again, "mutating a returned definition must not affect the store")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte("type: string")))
		require.NoError(t, store.Save(ctx, name, []byte("type: boolean")))

		loaded, err := store.Get(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte("type: boolean"), loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, name, []byte("type: string"))
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Get(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, "Get after Delete should return ErrNotFound")

		// Deleting again reports the absence
		err = store.Delete(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		// Setup: Create 2 schemas
		name1 := name + "-1"
		name2 := name + "-2"
		_ = store.Save(ctx, name1, []byte("type: string"))
		_ = store.Save(ctx, name2, []byte("type: number"))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, name1)
			_ = store.Delete(ctx, name2)
		}()

		// List
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name1)
		assert.Contains(t, names, name2)
	})
}
