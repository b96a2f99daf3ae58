// Package gitrepo implements the RepoOpener and LocalRepo ports using the
// go-git library. All operations are read-only; the working tree is never
// touched.
package gitrepo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"

	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.RepoOpener = Opener{}
	_ driven.LocalRepo  = (*Repo)(nil)
)

// Opener opens local repository checkouts from the filesystem.
type Opener struct{}

// NewOpener creates an Opener.
func NewOpener() Opener {
	return Opener{}
}

// Open opens the repository at path. A path that is not a git repository
// (or is unreadable) maps to ErrLocalRepoUnavailable.
func (Opener) Open(path string) (driven.LocalRepo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", driven.ErrLocalRepoUnavailable, path, err)
	}
	return &Repo{repo: repo, path: path}, nil
}

// Repo is a read-only handle on an opened checkout.
type Repo struct {
	repo *git.Repository
	path string
}

// HeadSHA resolves HEAD to its commit identifier. An unborn or otherwise
// unresolvable HEAD maps to ErrLocalRepoUnavailable.
func (r *Repo) HeadSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: resolving HEAD of %s: %v", driven.ErrLocalRepoUnavailable, r.path, err)
	}

	// Head() already resolves symbolic refs to a hash; peel it to a commit
	// so a HEAD pointing at a non-commit object is rejected rather than
	// compared against remote commit identifiers.
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("%w: reading HEAD commit %s of %s: %v", driven.ErrLocalRepoUnavailable, head.Hash(), r.path, err)
	}

	return commit.Hash.String(), nil
}
