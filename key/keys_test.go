package key

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/schnorr"
)

func testParams(t *testing.T) *group.Params {
	t.Helper()
	params, err := group.NewParams(big.NewInt(23), big.NewInt(11), big.NewInt(4))
	require.NoError(t, err)
	return params
}

func TestKeyPublic(t *testing.T) {
	params := testParams(t)
	kp, err := NewPair(params, schnorr.DefaultSchemeID, nil)
	require.NoError(t, err)
	ptoml := kp.Public.TOML().(*PublicTOML)
	require.Equal(t, schnorr.DefaultSchemeID, ptoml.Scheme)

	var writer bytes.Buffer
	enc := toml.NewEncoder(&writer)
	require.NoError(t, enc.Encode(ptoml))

	p2 := new(Identity)
	p2toml := new(PublicTOML)
	_, err = toml.NewDecoder(&writer).Decode(p2toml)
	require.NoError(t, err)
	require.NoError(t, p2.FromTOML(p2toml))

	require.True(t, kp.Public.Equal(p2))
}

func TestKeyPrivate(t *testing.T) {
	params := testParams(t)
	kp, err := NewPair(params, "", nil)
	require.NoError(t, err)
	require.Equal(t, schnorr.DefaultSchemeID, kp.Public.Scheme)

	var writer bytes.Buffer
	require.NoError(t, toml.NewEncoder(&writer).Encode(kp.TOML()))

	p2 := new(Pair)
	p2toml := new(PairTOML)
	_, err = toml.NewDecoder(&writer).Decode(p2toml)
	require.NoError(t, err)
	require.NoError(t, p2.FromTOML(p2toml))

	require.Equal(t, 0, kp.Secret.Cmp(p2.Secret))
	require.Equal(t, kp.Public.Scheme, p2.Public.Scheme)
	require.Equal(t, kp.Public.GroupHash, p2.Public.GroupHash)
	// the public element is not stored in the private file
	require.Nil(t, p2.Public.Key)
}

func TestNewPairSecretRange(t *testing.T) {
	params := testParams(t)
	for i := 0; i < 50; i++ {
		kp, err := NewPair(params, schnorr.DefaultSchemeID, nil)
		require.NoError(t, err)
		require.True(t, kp.Secret.Sign() > 0)
		require.True(t, kp.Secret.Cmp(params.Q) < 0)
		// the public key is the exponentiation of the secret
		want := new(big.Int).Exp(params.G, kp.Secret, params.P)
		require.Equal(t, 0, want.Cmp(kp.Public.Key))
	}
}

func TestNewPairRejectsUnknownScheme(t *testing.T) {
	params := testParams(t)
	_, err := NewPair(params, "schnorr-md5", nil)
	require.ErrorIs(t, err, schnorr.ErrUnknownScheme)
	_, err = NewPair(nil, schnorr.DefaultSchemeID, nil)
	require.Error(t, err)
}

func TestPairProverVerifier(t *testing.T) {
	params := testParams(t)
	kp, err := NewPair(params, schnorr.Blake2bSchemeID, nil)
	require.NoError(t, err)

	prover, err := kp.Prover(params)
	require.NoError(t, err)
	require.Equal(t, schnorr.Blake2bSchemeID, prover.Scheme().Name)
	verifier, err := kp.Public.Verifier(params)
	require.NoError(t, err)

	tr, err := prover.Prove([]byte("registration"))
	require.NoError(t, err)
	ok, err := verifier.VerifyTranscript(tr, []byte("registration"))
	require.NoError(t, err)
	require.True(t, ok)

	// the identity is pinned to its group
	_, err = kp.Prover(group.MODP2048())
	require.Error(t, err)
	_, err = kp.Public.Verifier(group.MODP2048())
	require.Error(t, err)
}

func TestIdentityEqual(t *testing.T) {
	params := testParams(t)
	kp1, err := NewPair(params, schnorr.DefaultSchemeID, nil)
	require.NoError(t, err)
	kp2, err := NewPair(params, schnorr.DefaultSchemeID, nil)
	require.NoError(t, err)

	require.True(t, kp1.Public.Equal(kp1.Public))
	if kp1.Secret.Cmp(kp2.Secret) != 0 {
		require.False(t, kp1.Public.Equal(kp2.Public))
	}

	other := &Identity{Key: kp1.Public.Key, Scheme: schnorr.Blake2bSchemeID, GroupHash: kp1.Public.GroupHash}
	require.False(t, kp1.Public.Equal(other))
}

func TestPairWipe(t *testing.T) {
	params := testParams(t)
	kp, err := NewPair(params, schnorr.DefaultSchemeID, nil)
	require.NoError(t, err)

	words := kp.Secret.Bits()
	kp.Wipe()
	require.Nil(t, kp.Secret)
	for _, w := range words {
		require.Zero(t, w)
	}
}
