package group_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/group"
)

func TestWriteOperandFraming(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, group.WriteOperand(&b, big.NewInt(0x0102)))
	require.Equal(t, []byte{0, 0, 0, 2, 0x01, 0x02}, b.Bytes())

	b.Reset()
	require.NoError(t, group.WriteOperand(&b, big.NewInt(0)))
	require.Equal(t, []byte{0, 0, 0, 0}, b.Bytes())
}

func TestWriteBytesFramesEmpty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, group.WriteBytes(&b, nil))
	require.NoError(t, group.WriteBytes(&b, []byte("ctx")))
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3, 'c', 't', 'x'}, b.Bytes())
}

// Framing must keep differently split operands apart: (0x01, 0x02) and
// (0x0102, empty) concatenate to different encodings.
func TestFramingIsUnambiguous(t *testing.T) {
	var left bytes.Buffer
	require.NoError(t, group.WriteOperand(&left, big.NewInt(0x01)))
	require.NoError(t, group.WriteOperand(&left, big.NewInt(0x02)))

	var right bytes.Buffer
	require.NoError(t, group.WriteOperand(&right, big.NewInt(0x0102)))
	require.NoError(t, group.WriteOperand(&right, big.NewInt(0)))

	require.NotEqual(t, left.Bytes(), right.Bytes())
}

func TestIntStringRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "1", "255", "256", "123456789123456789123456789"} {
		want, ok := new(big.Int).SetString(v, 10)
		require.True(t, ok)

		got, err := group.StringToInt(group.IntToString(want))
		require.NoError(t, err)
		require.Zero(t, want.Cmp(got))
	}
}

func TestStringToIntRejectsBadHex(t *testing.T) {
	_, err := group.StringToInt("zz")
	require.Error(t, err)
}

func TestWipe(t *testing.T) {
	v := new(big.Int).SetInt64(0x1122334455)
	words := v.Bits()

	group.Wipe(v)
	require.Zero(t, v.Sign())
	for _, w := range words {
		require.Zero(t, int(w))
	}

	// wiping nil or already-zero values is a no-op
	group.Wipe(nil)
	group.Wipe(new(big.Int))
}
