// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ericfisherdev/pullwatch/internal/domain/model"
	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// checkRequest represents a manual check trigger.
type checkRequest struct {
	done chan error
}

// SyncService orchestrates the reconciliation loop: fetch the remote head,
// read the local head, pull on divergence, sleep, repeat. One cycle runs at
// a time; no work overlaps a sleep.
type SyncService struct {
	fetcher  driven.RemoteFetcher
	opener   driven.RepoOpener
	puller   driven.Puller
	ref      model.RemoteRef
	path     string
	interval time.Duration
	status   io.Writer
	checkCh  chan checkRequest

	now func() time.Time
}

// NewSyncService creates a new SyncService with all required dependencies.
// The status writer receives the single-line idle status refresh; pass
// os.Stdout in production.
func NewSyncService(
	fetcher driven.RemoteFetcher,
	opener driven.RepoOpener,
	puller driven.Puller,
	ref model.RemoteRef,
	path string,
	interval time.Duration,
	status io.Writer,
) *SyncService {
	return &SyncService{
		fetcher:  fetcher,
		opener:   opener,
		puller:   puller,
		ref:      ref,
		path:     path,
		interval: interval,
		status:   status,
		checkCh:  make(chan checkRequest),
		now:      time.Now,
	}
}

// loopState is the mutable state of the reconciliation loop. It is owned
// exclusively by Start and passed by pointer into each cycle; nothing else
// reads or writes it.
type loopState struct {
	lastChange time.Time // time of the last detected divergence (startup time initially)
	attempt    int       // consecutive transient failures, drives backoff
}

// Start begins the reconciliation loop. It runs an immediate first cycle,
// then cycles on the configured interval, or on a backoff delay after a
// transient failure. It also listens for manual check requests. Start blocks
// until the context is canceled; no per-cycle error ever terminates it.
func (s *SyncService) Start(ctx context.Context) {
	state := &loopState{lastChange: s.now()}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync service stopped")
			return
		case <-timer.C:
			delay, _ := s.runCycle(ctx, state)
			timer.Reset(delay)
		case req := <-s.checkCh:
			delay, err := s.runCycle(ctx, state)
			req.done <- err
			timer.Reset(delay)
		}
	}
}

// CheckNow triggers an immediate reconciliation cycle, bypassing the current
// sleep. It blocks until the cycle completes or the context is canceled, and
// returns the cycle's transient error, if any.
func (s *SyncService) CheckNow(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.checkCh <- checkRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runCycle performs one reconciliation cycle and returns the delay before the
// next one: the full configured interval after a completed comparison, a
// backoff delay after a transient failure. The returned error reports the
// transient failure, already logged; callers other than CheckNow discard it.
func (s *SyncService) runCycle(ctx context.Context, st *loopState) (time.Duration, error) {
	repo, err := s.opener.Open(s.path)
	if err != nil {
		return s.failureDelay(st, "opening local repository failed", err), err
	}

	remoteSHA, err := s.fetcher.HeadSHA(ctx, s.ref)
	if err != nil {
		return s.failureDelay(st, "fetching remote head failed", err), err
	}
	slog.Debug("fetched remote head", "repo", s.ref.FullName(), "branch", s.ref.Branch, "sha", remoteSHA)

	localSHA, err := repo.HeadSHA()
	if err != nil {
		return s.failureDelay(st, "reading local head failed", err), err
	}
	slog.Debug("read local head", "path", s.path, "sha", localSHA)

	if remoteSHA != localSHA {
		slog.Info("changes detected, pulling updates", "remote", remoteSHA, "local", localSHA)
		if err := s.puller.Pull(ctx, s.path); err != nil {
			// Non-fatal: the next cycle's comparison re-attempts the pull
			// if divergence persists.
			slog.Error("pull failed", "path", s.path, "error", err)
		} else {
			slog.Info("pulled latest changes", "path", s.path)
		}
		st.lastChange = s.now()
		st.attempt = 0
		return s.interval, nil
	}

	st.attempt = 0
	s.printStatus(st)
	return s.interval, nil
}

// failureDelay logs a transient failure and advances the backoff counter.
func (s *SyncService) failureDelay(st *loopState, msg string, err error) time.Duration {
	delay := BackoffDelay(st.attempt)
	slog.Error(msg, "error", err, "attempt", st.attempt, "retry_in", delay)
	st.attempt++
	return delay
}

// printStatus emits the idle status line. The leading carriage return and
// absent newline make successive idle cycles overwrite a single line.
func (s *SyncService) printStatus(st *loopState) {
	elapsed := int(s.now().Sub(st.lastChange).Seconds())
	fmt.Fprintf(s.status, "\rNo new changes since %s UTC. Elapsed time: %d seconds.",
		st.lastChange.UTC().Format("2006-01-02 15:04:05"), elapsed)
}
