package driven

import (
	"context"
	"errors"
)

// ErrSyncFailed indicates the pull operation ran but did not succeed
// (non-zero exit status or the process could not be started).
var ErrSyncFailed = errors.New("pull failed")

// Puller defines the driven port for bringing a local checkout up to date
// with its remote. Implementations run one pull attempt per call; the loop
// decides whether and when to try again.
type Puller interface {
	Pull(ctx context.Context, path string) error
}
