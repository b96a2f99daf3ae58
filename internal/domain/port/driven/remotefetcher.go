package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/pullwatch/internal/domain/model"
)

// Sentinel errors returned by RemoteFetcher implementations.
// Both are transient from the loop's point of view; the distinction
// exists so logs can tell a dead network from a broken API response.
var (
	// ErrRemoteUnavailable indicates the hosting API could not be reached
	// (connection failure, DNS error, request timeout).
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrRemoteProtocol indicates the hosting API answered with a non-2xx
	// status, a malformed body, or a body missing the commit identifier.
	ErrRemoteProtocol = errors.New("unexpected remote response")
)

// RemoteFetcher defines the driven port for reading the head commit
// identifier of a branch from the hosting provider's API.
// Implementations must not retry internally; retries belong to the
// reconciliation loop.
type RemoteFetcher interface {
	HeadSHA(ctx context.Context, ref model.RemoteRef) (string, error)
}
