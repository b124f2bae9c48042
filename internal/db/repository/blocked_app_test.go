//go:build integration

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db/testutil"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestBlockedAppRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewBlockedAppRepository(td.Pool)
	ctx := context.Background()

	t.Run("create then get returns the same row", func(t *testing.T) {
		td.TruncateTables(t)

		created, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{
			PackageName:     "com.example.app",
			AppName:         "Example",
			DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, created.ID, int64(1))
		assert.True(t, created.IsActive)

		got, err := repo.GetBlockedApp(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("explicit inactive flag is stored", func(t *testing.T) {
		td.TruncateTables(t)

		created, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{
			PackageName:     "com.example.paused",
			AppName:         "Paused",
			DurationMinutes: 15,
			IsActive:        boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, created.IsActive)
	})

	t.Run("no semantic validation and duplicates allowed", func(t *testing.T) {
		td.TruncateTables(t)

		first, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{PackageName: "com.dup", AppName: "Dup", DurationMinutes: -5})
		require.NoError(t, err)
		second, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{PackageName: "com.dup", AppName: "Dup", DurationMinutes: -5})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, -5, second.DurationMinutes)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := repo.GetBlockedApp(ctx, 9999)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("list is empty, not nil, without rows", func(t *testing.T) {
		td.TruncateTables(t)

		apps, err := repo.ListBlockedApps(ctx)
		require.NoError(t, err)
		assert.NotNil(t, apps)
		assert.Empty(t, apps)
	})

	t.Run("list after creating N and deleting M returns N-M rows", func(t *testing.T) {
		td.TruncateTables(t)

		var created []*models.BlockedApp
		for i := 0; i < 5; i++ {
			app, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{
				PackageName:     "com.example.app" + string(rune('a'+i)),
				AppName:         "App",
				DurationMinutes: 10 * (i + 1),
			})
			require.NoError(t, err)
			created = append(created, app)
		}

		for _, app := range created[:2] {
			deleted, err := repo.DeleteBlockedApp(ctx, app.ID)
			require.NoError(t, err)
			assert.True(t, deleted)
		}

		apps, err := repo.ListBlockedApps(ctx)
		require.NoError(t, err)
		assert.Equal(t, created[2:], apps)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		td.TruncateTables(t)

		deleted, err := repo.DeleteBlockedApp(ctx, 42)
		require.NoError(t, err)
		assert.False(t, deleted)

		app, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{PackageName: "com.once", AppName: "Once", DurationMinutes: 1})
		require.NoError(t, err)

		deleted, err = repo.DeleteBlockedApp(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteBlockedApp(ctx, app.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetBlockedApp(ctx, app.ID)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("concurrent deletes report success once", func(t *testing.T) {
		td.TruncateTables(t)

		app, err := repo.CreateBlockedApp(ctx, models.NewBlockedApp{PackageName: "com.race", AppName: "Race", DurationMinutes: 5})
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				deleted, err := repo.DeleteBlockedApp(ctx, app.ID)
				if err == nil && deleted {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
