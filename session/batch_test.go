package session

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/schnorr"
)

func TestVerifyBatch(t *testing.T) {
	params := testGroup(t)
	prover, err := schnorr.NewProver(params, big.NewInt(6))
	require.NoError(t, err)
	verifier, err := schnorr.NewVerifier(params, prover.PublicKey())
	require.NoError(t, err)
	context := []byte("batch")

	trs := make([]*schnorr.Transcript, 6)
	for i := range trs {
		tr, err := prover.Prove(context)
		require.NoError(t, err)
		trs[i] = tr
	}

	// tamper with the response of one proof
	trs[1] = &schnorr.Transcript{
		T: trs[1].T,
		C: trs[1].C,
		S: new(big.Int).Mod(new(big.Int).Add(trs[1].S, big.NewInt(1)), params.Q),
	}
	// break the commitment range of another
	trs[3] = &schnorr.Transcript{T: big.NewInt(0), C: trs[3].C, S: trs[3].S}
	// and drop one entirely
	trs[5] = nil

	results, err := VerifyBatch(verifier, context, trs, 3)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true, false, true, false}, results)
}

func TestVerifyBatchDefaults(t *testing.T) {
	params := testGroup(t)
	prover, err := schnorr.NewProver(params, big.NewInt(6))
	require.NoError(t, err)
	verifier, err := schnorr.NewVerifier(params, prover.PublicKey())
	require.NoError(t, err)

	tr, err := prover.Prove(nil)
	require.NoError(t, err)

	// workers <= 0 falls back to one worker per CPU
	results, err := VerifyBatch(verifier, nil, []*schnorr.Transcript{tr}, 0)
	require.NoError(t, err)
	require.Equal(t, []bool{true}, results)

	results, err = VerifyBatch(verifier, nil, nil, 4)
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = VerifyBatch(nil, nil, nil, 4)
	require.Error(t, err)
}
