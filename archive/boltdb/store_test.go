package boltdb

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/archive"
	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/schnorr"
)

func newTranscript(t, c, s int64) *schnorr.Transcript {
	return &schnorr.Transcript{T: big.NewInt(t), C: big.NewInt(c), S: big.NewInt(s)}
}

func TestStoreBolt(t *testing.T) {
	tmp := t.TempDir()
	ctx := context.Background()
	l := log.DefaultLogger()

	store, err := NewBoltStore(ctx, l, tmp, nil)
	require.NoError(t, err)

	sLen, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, sLen)

	tr1 := newTranscript(18, 7, 1)
	tr2 := newTranscript(6, 2, 4)

	require.NoError(t, store.Put(ctx, tr1))
	sLen, err = store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sLen)

	// the hash keys the entry, storing twice does not grow the archive
	require.NoError(t, store.Put(ctx, tr1))
	sLen, err = store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sLen)

	require.NoError(t, store.Put(ctx, tr2))
	sLen, err = store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, sLen)

	loaded, err := store.Get(ctx, tr1.Hash())
	require.NoError(t, err)
	require.True(t, tr1.Equal(loaded))

	_, err = store.Get(ctx, []byte("no such hash"))
	require.ErrorIs(t, err, archive.ErrNoTranscriptStored)

	found, err := store.Has(ctx, tr2.Hash())
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, store.Del(ctx, tr1.Hash()))
	found, err = store.Has(ctx, tr1.Hash())
	require.NoError(t, err)
	require.False(t, found)

	seen := 0
	err = store.ForEach(ctx, func(tr *schnorr.Transcript) error {
		seen++
		require.True(t, tr2.Equal(tr))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, seen)

	require.NoError(t, store.Close(ctx))

	// the archive survives a reopen
	store, err = NewBoltStore(ctx, l, tmp, nil)
	require.NoError(t, err)
	defer store.Close(ctx)
	loaded, err = store.Get(ctx, tr2.Hash())
	require.NoError(t, err)
	require.True(t, tr2.Equal(loaded))
}

func TestStoreBoltRejectsBadTranscripts(t *testing.T) {
	tmp := t.TempDir()
	ctx := context.Background()
	store, err := NewBoltStore(ctx, log.DefaultLogger(), tmp, nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	require.Error(t, store.Put(ctx, nil))
	require.Error(t, store.Put(ctx, &schnorr.Transcript{T: big.NewInt(1)}))
}

func TestStoreBoltForEachStops(t *testing.T) {
	tmp := t.TempDir()
	ctx := context.Background()
	store, err := NewBoltStore(ctx, log.DefaultLogger(), tmp, nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Put(ctx, newTranscript(18, 7, 1)))
	require.NoError(t, store.Put(ctx, newTranscript(6, 2, 4)))

	boom := errors.New("stop here")
	err = store.ForEach(ctx, func(*schnorr.Transcript) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestStoreBoltRespectsContext(t *testing.T) {
	tmp := t.TempDir()
	ctx := context.Background()
	store, err := NewBoltStore(ctx, log.DefaultLogger(), tmp, nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	require.ErrorIs(t, store.Put(cancelled, newTranscript(18, 7, 1)), context.Canceled)
	_, err = store.Get(cancelled, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
	_, err = store.Len(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}
