// Package archive persists proof transcripts once they have been verified.
package archive

import (
	"context"
	"errors"

	"github.com/paul-weiss/zkp/schnorr"
)

// ErrNoTranscriptStored is returned when the requested transcript is not in
// the store.
var ErrNoTranscriptStored = errors.New("no transcript stored under requested hash")

// Store saves and retrieves transcripts, keyed by their hash.
// Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, tr *schnorr.Transcript) error
	Get(ctx context.Context, hash []byte) (*schnorr.Transcript, error)
	Has(ctx context.Context, hash []byte) (bool, error)
	Del(ctx context.Context, hash []byte) error
	Len(ctx context.Context) (int, error)
	ForEach(ctx context.Context, fn func(tr *schnorr.Transcript) error) error
	Close(ctx context.Context) error
}
