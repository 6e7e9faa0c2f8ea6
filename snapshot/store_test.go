package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckyhq/ducky/snapshot/models"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

func TestStore_RegisterProjectIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.RegisterProject("/home/dev/proj", "proj", "terminal")
	require.NoError(t, err)
	second, err := store.RegisterProject("/home/dev/proj", "proj", "terminal")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	found, ok := store.GetProjectByPath("/home/dev/proj")
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)

	_, ok = store.GetProjectByPath("/home/dev/other")
	assert.False(t, ok)
}

func TestStore_ApplyChangesUpsertAndDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	project, err := store.RegisterProject("/p", "p", "terminal")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", NewVersion: "package a", LastEdit: now, IsNewFile: true, ProjectID: project.ID},
		{Filename: "sub", Path: "/p/sub", IsDir: true, IsNewFile: true, LastEdit: now, ProjectID: project.ID},
	}))

	index, err := store.FileIndex(project.ID)
	require.NoError(t, err)
	require.Len(t, index, 2)
	assert.Equal(t, "package a", index["/p/a.go"].Content)
	assert.Equal(t, HashContent("package a"), index["/p/a.go"].Hash)
	assert.True(t, index["/p/sub"].IsDir)

	// Modification replaces the record.
	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", OldVersion: "package a", NewVersion: "package a2", LastEdit: now, ProjectID: project.ID},
	}))
	index, err = store.FileIndex(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "package a2", index["/p/a.go"].Content)

	// Deletion removes it.
	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", OldVersion: "package a2", NewVersion: "", LastEdit: now, ProjectID: project.ID},
	}))
	index, err = store.FileIndex(project.ID)
	require.NoError(t, err)
	_, exists := index["/p/a.go"]
	assert.False(t, exists)
}

func TestStore_ProjectFilesExcludesDirsAndPath(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	project, err := store.RegisterProject("/p", "p", "terminal")
	require.NoError(t, err)

	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", NewVersion: "a", IsNewFile: true, ProjectID: project.ID},
		{Filename: "b.go", Path: "/p/b.go", NewVersion: "b", IsNewFile: true, ProjectID: project.ID},
		{Filename: "sub", Path: "/p/sub", IsDir: true, IsNewFile: true, ProjectID: project.ID},
	}))

	files, err := store.ProjectFiles(project.ID, "/p/a.go")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/p/b.go", files[0].Path)
}

func TestStore_Dismissals(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.AddDismissal(models.Dismissal{ProjectID: 1, Warning: "w1"}))
	require.NoError(t, store.AddDismissal(models.Dismissal{ProjectID: 2, Warning: "w2"}))

	dismissals, err := store.ListDismissals(1)
	require.NoError(t, err)
	require.Len(t, dismissals, 1)
	assert.Equal(t, "w1", dismissals[0].Warning)
	assert.NotEmpty(t, dismissals[0].ID)
	assert.False(t, dismissals[0].CreatedAt.IsZero())
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	project, err := store.RegisterProject("/p", "p", "terminal")
	require.NoError(t, err)
	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", NewVersion: "content", IsNewFile: true, ProjectID: project.ID},
	}))
	require.NoError(t, store.AddDismissal(models.Dismissal{ProjectID: project.ID, Warning: "noisy"}))

	// A fresh store over the same directory sees everything.
	reopened, err := NewStore(dir)
	require.NoError(t, err)

	found, ok := reopened.GetProjectByPath("/p")
	require.True(t, ok)
	assert.Equal(t, project.ID, found.ID)

	index, err := reopened.FileIndex(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "content", index["/p/a.go"].Content)

	dismissals, err := reopened.ListDismissals(project.ID)
	require.NoError(t, err)
	require.Len(t, dismissals, 1)
	assert.Equal(t, "noisy", dismissals[0].Warning)
}

func TestStore_Reset(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	project, err := store.RegisterProject("/p", "p", "terminal")
	require.NoError(t, err)
	require.NoError(t, store.ApplyChanges([]watcher_models.FileChange{
		{Filename: "a.go", Path: "/p/a.go", NewVersion: "x", IsNewFile: true, ProjectID: project.ID},
	}))

	require.NoError(t, store.Reset())

	_, ok := store.GetProjectByPath("/p")
	assert.False(t, ok)

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	_, ok = reopened.GetProjectByPath("/p")
	assert.False(t, ok)
}
