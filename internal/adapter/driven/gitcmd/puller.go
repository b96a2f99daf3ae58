// Package gitcmd implements the Puller port by shelling out to the git binary.
package gitcmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/executor"

	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Puller = Puller{}

// Puller runs `git -C <path> pull` as an external process. It performs one
// attempt per call; the reconciliation loop's next comparison naturally
// retries if divergence persists.
type Puller struct{}

// NewPuller creates a Puller.
func NewPuller() Puller {
	return Puller{}
}

// Pull brings the checkout at path up to date with its remote. Stdout and
// stderr are captured for logging only, never parsed; the exit status alone
// decides success. Failure maps to ErrSyncFailed.
func (Puller) Pull(ctx context.Context, path string) error {
	res, err := executor.New("git", "-C", path, "pull").Execute(ctx)
	if err != nil {
		if res != nil && res.ExitCode > 0 {
			slog.Debug("git pull output",
				"path", path,
				"exit_code", res.ExitCode,
				"stderr", strings.TrimSpace(res.Stderr),
			)
			return fmt.Errorf("%w: git pull in %s exited with status %d", driven.ErrSyncFailed, path, res.ExitCode)
		}
		return fmt.Errorf("%w: running git pull in %s: %v", driven.ErrSyncFailed, path, err)
	}
	return nil
}
