package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStorageBackendContract runs a suite of tests to verify that a
// StorageBackend implementation adheres to the defined interface contract.
func RunStorageBackendContract(t *testing.T, backend StorageBackend) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := backend.Set(ctx, key, []byte(`{"id":"ixn_1"}`))
		require.NoError(t, err, "Set should not return error")

		data, err := backend.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.JSONEq(t, `{"id":"ixn_1"}`, string(data))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, key, []byte(`{"id":"ixn_2"}`)))

		data, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"ixn_2"}`, string(data))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := backend.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrInteractionNotFound)
	})

	t.Run("Keys", func(t *testing.T) {
		k1 := key + "-a"
		k2 := key + "-b"
		require.NoError(t, backend.Set(ctx, k1, []byte("1")))
		require.NoError(t, backend.Set(ctx, k2, []byte("2")))
		defer func() {
			_ = backend.Delete(ctx, k1)
			_ = backend.Delete(ctx, k2)
		}()

		keys, err := backend.Keys(ctx, key+"-")
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, key, []byte("x")))

		err := backend.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = backend.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrInteractionNotFound, "Get after Delete should return ErrInteractionNotFound")

		// Deleting again is not an error.
		assert.NoError(t, backend.Delete(ctx, key))
	})
}
