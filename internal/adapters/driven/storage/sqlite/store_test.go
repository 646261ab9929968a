package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "repocache.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".repocache", "data", "repocache.db"), store.Path())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/dev/null/invalid")
	assert.Error(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"sources", "refresh_history"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SourceStore().Save(context.Background(), domain.Source{ID: "kept"}))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := second.SourceStore().Get(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.ID)
}

func TestStore_Migrate_FailingMigrationRollsBack(t *testing.T) {
	store := setupTestStore(t)

	err := store.migrate(fstest.MapFS{
		"002_broken.up.sql": &fstest.MapFile{Data: []byte("CREATE TABLE extra (id TEXT); NOT SQL")},
	})
	require.Error(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestStore_Migrate_SkipsUnversionedFiles(t *testing.T) {
	store := setupTestStore(t)

	err := store.migrate(fstest.MapFS{
		"notes.up.sql":      &fstest.MapFile{Data: []byte("NOT SQL")},
		"003_down.down.sql": &fstest.MapFile{Data: []byte("NOT SQL")},
	})
	assert.NoError(t, err)
}

func TestSourceStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	err := sources.Save(ctx, domain.Source{
		ID:      "main",
		Name:    "Main Repo",
		URL:     "https://repo.example.com/apps.json",
		IconURL: "https://repo.example.com/icon.png",
	})
	require.NoError(t, err)

	got, err := sources.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Main Repo", got.Name)
	assert.Equal(t, "https://repo.example.com/apps.json", got.URL)
	assert.Equal(t, "https://repo.example.com/icon.png", got.IconURL)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSourceStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SourceStore().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_Save_EmptyID(t *testing.T) {
	store := setupTestStore(t)

	err := store.SourceStore().Save(context.Background(), domain.Source{URL: "https://x.example"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourceStore_Save_UpdateKeepsCreatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, sources.Save(ctx, domain.Source{ID: "a", Name: "old", CreatedAt: created}))
	require.NoError(t, sources.Save(ctx, domain.Source{ID: "a", Name: "new"}))

	got, err := sources.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, got.UpdatedAt.After(created))
}

func TestSourceStore_List_OldestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sources.Save(ctx, domain.Source{ID: "c", CreatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, sources.Save(ctx, domain.Source{ID: "a", CreatedAt: base}))
	require.NoError(t, sources.Save(ctx, domain.Source{ID: "b", CreatedAt: base.Add(time.Hour)}))

	list, err := sources.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestSourceStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	list, err := store.SourceStore().List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSourceStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	require.NoError(t, sources.Save(ctx, domain.Source{ID: "gone"}))
	require.NoError(t, sources.Delete(ctx, "gone"))

	_, err := sources.Get(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing source is not an error.
	assert.NoError(t, sources.Delete(ctx, "gone"))
}

func TestSourceStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	ctx := context.Background()
	sources := store.SourceStore()

	assert.Error(t, sources.Save(ctx, domain.Source{ID: "x"}))
	_, err = sources.Get(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	_, err = sources.List(ctx)
	assert.Error(t, err)
	assert.Error(t, sources.Delete(ctx, "x"))
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)

	assert.True(t, ts.Equal(parseTime(formatTime(ts))))
	assert.True(t, ts.Equal(parseTime(ts.Format(time.RFC3339Nano))))
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
}

func TestFormatTime_SortsLexically(t *testing.T) {
	earlier := time.Date(2025, 3, 4, 5, 6, 7, 100, time.UTC)
	later := earlier.Add(time.Second)

	assert.Less(t, formatTime(earlier), formatTime(later))
	assert.Equal(t, formatTime(earlier), formatTime(earlier.In(time.FixedZone("X", 3600))))
}
