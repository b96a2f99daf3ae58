package driven

import "errors"

// ErrLocalRepoUnavailable indicates the local checkout could not be opened
// or has no resolvable head commit (detached or unborn HEAD).
var ErrLocalRepoUnavailable = errors.New("local repository unavailable")

// RepoOpener defines the driven port for opening a local repository checkout.
// Open returns ErrLocalRepoUnavailable (wrapped) when the path is not a
// readable repository.
type RepoOpener interface {
	Open(path string) (LocalRepo, error)
}

// LocalRepo is a read-only handle on an opened local checkout.
type LocalRepo interface {
	// HeadSHA resolves HEAD to its commit identifier.
	HeadSHA() (string, error)
}
