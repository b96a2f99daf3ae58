package gitcmd

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// runGit runs a git command for test setup, failing the test on error.
func runGit(t *testing.T, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// requireGit skips the test when the git binary is not installed.
func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestPull_UpToDate(t *testing.T) {
	requireGit(t)

	origin := filepath.Join(t.TempDir(), "origin")
	clone := filepath.Join(t.TempDir(), "clone")

	runGit(t, "init", origin)
	runGit(t, "-C", origin,
		"-c", "user.name=Test Author",
		"-c", "user.email=test@example.com",
		"commit", "--allow-empty", "-m", "initial commit")
	runGit(t, "clone", origin, clone)

	err := NewPuller().Pull(context.Background(), clone)
	assert.NoError(t, err)
}

func TestPull_FetchesNewCommits(t *testing.T) {
	requireGit(t)

	origin := filepath.Join(t.TempDir(), "origin")
	clone := filepath.Join(t.TempDir(), "clone")

	runGit(t, "init", origin)
	runGit(t, "-C", origin,
		"-c", "user.name=Test Author",
		"-c", "user.email=test@example.com",
		"commit", "--allow-empty", "-m", "initial commit")
	runGit(t, "clone", origin, clone)
	runGit(t, "-C", origin,
		"-c", "user.name=Test Author",
		"-c", "user.email=test@example.com",
		"commit", "--allow-empty", "-m", "second commit")

	require.NoError(t, NewPuller().Pull(context.Background(), clone))

	// The clone's head must now match the origin's.
	originHead, err := exec.Command("git", "-C", origin, "rev-parse", "HEAD").Output()
	require.NoError(t, err)
	cloneHead, err := exec.Command("git", "-C", clone, "rev-parse", "HEAD").Output()
	require.NoError(t, err)
	assert.Equal(t, string(originHead), string(cloneHead))
}

func TestPull_NotARepository(t *testing.T) {
	requireGit(t)

	err := NewPuller().Pull(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, driven.ErrSyncFailed)
}
