package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunStorageBackendContract(t, newTestStore(t))
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, redis.WithPrefix("other:"))

	require.NoError(t, store.Set(ctx, "interaction_grp1", []byte("{}")))

	keys, err := store.Keys(ctx, "interaction_")
	require.NoError(t, err)
	require.Equal(t, []string{"interaction_grp1"}, keys)
}
