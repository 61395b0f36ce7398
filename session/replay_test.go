package session

import (
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/schnorr"
)

func testTranscript(t *testing.T, context []byte) *schnorr.Transcript {
	t.Helper()
	params := testGroup(t)
	prover, err := schnorr.NewProver(params, big.NewInt(6))
	require.NoError(t, err)
	tr, err := prover.Prove(context)
	require.NoError(t, err)
	return tr
}

func TestReplayGuard(t *testing.T) {
	guard, err := NewReplayGuard(16)
	require.NoError(t, err)

	tr := testTranscript(t, nil)
	require.False(t, guard.Seen(tr))
	require.True(t, guard.Seen(tr))
	require.Equal(t, 1, guard.Len())

	// a fresh proof has a fresh commitment and is not a replay
	other := testTranscript(t, nil)
	if !tr.Equal(other) {
		require.False(t, guard.Seen(other))
		require.Equal(t, 2, guard.Len())
	}

	require.True(t, guard.Seen(nil))
}

func TestReplayGuardEviction(t *testing.T) {
	guard, err := NewReplayGuard(1)
	require.NoError(t, err)

	tr1 := testTranscript(t, []byte("a"))
	tr2 := testTranscript(t, []byte("b"))
	require.False(t, guard.Seen(tr1))
	require.False(t, guard.Seen(tr2))

	// tr1 aged out of the single slot, the guard is best effort
	require.False(t, guard.Seen(tr1))
}

func TestReplayGuardConcurrent(t *testing.T) {
	guard, err := NewReplayGuard(16)
	require.NoError(t, err)
	tr := testTranscript(t, nil)

	var fresh int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !guard.Seen(tr) {
				atomic.AddInt32(&fresh, 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), fresh)
}
