package archive_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/archive"
	"github.com/paul-weiss/zkp/archive/boltdb"
	"github.com/paul-weiss/zkp/archive/memdb"
	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/schnorr"
)

// Both backends must behave the same behind the Store interface: a fresh
// transcript is unknown, archiving it flags every later sighting, and what
// comes back out still verifies.
func TestArchiveFlagsReplays(t *testing.T) {
	ctx := context.Background()

	bstore, err := boltdb.NewBoltStore(ctx, log.DefaultLogger(), t.TempDir(), nil)
	require.NoError(t, err)

	backends := map[string]archive.Store{
		"memdb":  memdb.NewStore(),
		"boltdb": bstore,
	}

	for name, store := range backends {
		store := store
		t.Run(name, func(t *testing.T) {
			defer store.Close(ctx)

			params, err := group.NewParams(big.NewInt(23), big.NewInt(11), big.NewInt(4))
			require.NoError(t, err)
			prover, err := schnorr.NewProver(params, big.NewInt(6))
			require.NoError(t, err)
			defer prover.Clear()
			verifier, err := schnorr.NewVerifier(params, prover.PublicKey())
			require.NoError(t, err)

			first, err := prover.Prove([]byte("archive"))
			require.NoError(t, err)
			second, err := prover.Prove([]byte("archive"))
			require.NoError(t, err)

			seen, err := store.Has(ctx, first.Hash())
			require.NoError(t, err)
			require.False(t, seen)

			require.NoError(t, store.Put(ctx, first))
			seen, err = store.Has(ctx, first.Hash())
			require.NoError(t, err)
			require.True(t, seen)

			// a later proof over the same context carries a fresh nonce, so
			// the archive does not mistake it for the first one
			require.False(t, first.Equal(second))
			seen, err = store.Has(ctx, second.Hash())
			require.NoError(t, err)
			require.False(t, seen)
			require.NoError(t, store.Put(ctx, second))

			n, err := store.Len(ctx)
			require.NoError(t, err)
			require.Equal(t, 2, n)

			stored, err := store.Get(ctx, first.Hash())
			require.NoError(t, err)
			require.True(t, first.Equal(stored))
			ok, err := verifier.VerifyTranscript(stored, []byte("archive"))
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}
