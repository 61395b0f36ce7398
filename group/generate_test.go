package group_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/group"
)

func TestGenerateSafeParams(t *testing.T) {
	params, err := group.GenerateSafeParams(context.Background(), 64, nil)
	require.NoError(t, err)
	require.NoError(t, params.Validate())

	require.Equal(t, 64, params.P.BitLen())
	require.Equal(t, 63, params.Q.BitLen())
	require.Equal(t, big.NewInt(4), params.G)

	// p = 2q+1 exactly, not merely q | p-1.
	expected := new(big.Int).Lsh(params.Q, 1)
	expected.Add(expected, big.NewInt(1))
	require.Zero(t, params.P.Cmp(expected))
}

func TestGenerateSafeParamsRejectsTinyModulus(t *testing.T) {
	_, err := group.GenerateSafeParams(context.Background(), 8, nil)
	require.Error(t, err)
}

func TestGenerateSafeParamsHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := group.GenerateSafeParams(ctx, 2048, nil)
	require.ErrorIs(t, err, context.Canceled)
}
