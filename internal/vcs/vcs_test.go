package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo создаёт репозиторий с одним коммитом и тегами.
func initRepo(t *testing.T, tags ...string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"version":"1.2.3"}`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("package.json")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "releaser", Email: "releaser@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

func TestTagExists(t *testing.T) {
	dir := initRepo(t, "v1.2.2")

	exists, err := TagExists(dir, "v1.2.2")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = TagExists(dir, "v1.2.3")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTagExists_Subdirectory(t *testing.T) {
	dir := initRepo(t, "v0.1.0")
	sub := filepath.Join(dir, "build_docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	exists, err := TagExists(sub, "v0.1.0")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTagExists_NotRepository(t *testing.T) {
	_, err := TagExists(t.TempDir(), "v1.0.0")
	assert.ErrorIs(t, err, ErrNotRepository)
}
