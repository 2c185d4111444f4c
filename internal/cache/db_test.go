package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stacklok/mgnrega-dashboard-server/database"
)

func TestDBStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, cleanupFunc := database.SetupTestDBContainer(t, ctx)
	t.Cleanup(cleanupFunc)

	runStoreContract(t, func(t *testing.T, now Clock) Store {
		t.Helper()
		_, err := pool.Exec(ctx, "TRUNCATE api_cache")
		require.NoError(t, err)

		store, err := NewDBStore(pool, WithClock(now))
		require.NoError(t, err)
		return store
	})
}

func TestNewDBStoreRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewDBStore(nil)
	require.Error(t, err)
}
