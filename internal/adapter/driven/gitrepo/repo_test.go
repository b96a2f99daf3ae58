package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// createTestRepo initializes a repository in a temp directory and commits the
// given files, returning the repository path and the head commit hash.
func createTestRepo(t *testing.T, files map[string]string) (string, plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return dir, commitFiles(t, repo, dir, files)
}

// commitFiles writes and commits files to an already-initialized repository,
// returning the new head commit hash.
func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	hash, err := wt.Commit("test commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := NewOpener().Open(t.TempDir())
	assert.ErrorIs(t, err, driven.ErrLocalRepoUnavailable)
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := NewOpener().Open(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorIs(t, err, driven.ErrLocalRepoUnavailable)
}

func TestHeadSHA_ResolvesHeadCommit(t *testing.T) {
	dir, hash := createTestRepo(t, map[string]string{"README.md": "hello"})

	repo, err := NewOpener().Open(dir)
	require.NoError(t, err)

	sha, err := repo.HeadSHA()
	require.NoError(t, err)
	assert.Equal(t, hash.String(), sha)
}

func TestHeadSHA_TracksNewCommits(t *testing.T) {
	dir, first := createTestRepo(t, map[string]string{"README.md": "hello"})

	gitRepo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	second := commitFiles(t, gitRepo, dir, map[string]string{"README.md": "hello again"})
	require.NotEqual(t, first, second)

	repo, err := NewOpener().Open(dir)
	require.NoError(t, err)

	sha, err := repo.HeadSHA()
	require.NoError(t, err)
	assert.Equal(t, second.String(), sha)
}

func TestHeadSHA_UnbornHead(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err := NewOpener().Open(dir)
	require.NoError(t, err, "an empty repository still opens")

	_, err = repo.HeadSHA()
	assert.ErrorIs(t, err, driven.ErrLocalRepoUnavailable, "unborn HEAD has no resolvable commit")
}
