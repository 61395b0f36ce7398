package key

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/paul-weiss/zkp/entropy"
	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/schnorr"
)

// Pair is a wrapper around a secret exponent and the corresponding public
// identity.
type Pair struct {
	Secret *big.Int
	Public *Identity
}

// Identity holds the public side of a key pair: the group element y = g^x,
// the name of the challenge scheme it is used with, and the hash of the
// group parameters it lives in. The hash pins an identity to one group, so a
// key generated over one set of parameters cannot be silently verified over
// another.
type Identity struct {
	Key       *big.Int
	Scheme    string
	GroupHash []byte
}

// NewPair returns a freshly created secret / public key pair over the given
// parameters. The secret exponent is drawn uniformly from (0, q). A nil
// source falls back to crypto/rand.
func NewPair(params *group.Params, schemeName string, source io.Reader) (*Pair, error) {
	if params == nil {
		return nil, errors.New("key: missing group parameters")
	}
	if schemeName == "" {
		schemeName = schnorr.DefaultSchemeID
	}
	if _, err := schnorr.SchemeFromName(schemeName); err != nil {
		return nil, err
	}
	secret := entropy.PositiveInt(params.Q, source)
	public := new(big.Int).Exp(params.G, secret, params.P)
	return &Pair{
		Secret: secret,
		Public: &Identity{
			Key:       public,
			Scheme:    schemeName,
			GroupHash: params.Hash(),
		},
	}, nil
}

// Prover builds a prover from the pair over the given parameters. It refuses
// parameters other than the ones the pair was generated for.
func (p *Pair) Prover(params *group.Params, opts ...schnorr.Option) (*schnorr.Prover, error) {
	if err := p.Public.Matches(params); err != nil {
		return nil, err
	}
	opts = append([]schnorr.Option{schnorr.WithScheme(p.Public.Scheme)}, opts...)
	return schnorr.NewProver(params, p.Secret, opts...)
}

// Verifier builds a verifier for the identity over the given parameters.
func (i *Identity) Verifier(params *group.Params, opts ...schnorr.Option) (*schnorr.Verifier, error) {
	if err := i.Matches(params); err != nil {
		return nil, err
	}
	opts = append([]schnorr.Option{schnorr.WithScheme(i.Scheme)}, opts...)
	return schnorr.NewVerifier(params, i.Key, opts...)
}

// Matches reports whether the identity was generated over the given
// parameters, by comparing group hashes.
func (i *Identity) Matches(params *group.Params) error {
	if params == nil {
		return errors.New("key: missing group parameters")
	}
	if !bytes.Equal(i.GroupHash, params.Hash()) {
		return fmt.Errorf("key: identity bound to group %x, not %x", i.GroupHash, params.Hash())
	}
	return nil
}

// Equal returns true if the identity equals i2, public key, scheme and group
// included.
func (i *Identity) Equal(i2 *Identity) bool {
	if i == nil || i2 == nil {
		return i == i2
	}
	if i.Key == nil || i2.Key == nil {
		return i.Key == i2.Key && i.Scheme == i2.Scheme
	}
	return i.Key.Cmp(i2.Key) == 0 &&
		i.Scheme == i2.Scheme &&
		bytes.Equal(i.GroupHash, i2.GroupHash)
}

// PairTOML is the TOML-able version of a private key
type PairTOML struct {
	Secret    string
	Scheme    string
	GroupHash string
}

// PublicTOML is the TOML-able version of a public key
type PublicTOML struct {
	Key       string
	Scheme    string
	GroupHash string
}

// TOML returns a struct that can be marshalled using a TOML-encoding library
func (p *Pair) TOML() interface{} {
	return &PairTOML{
		Secret:    group.IntToString(p.Secret),
		Scheme:    p.Public.Scheme,
		GroupHash: hex.EncodeToString(p.Public.GroupHash),
	}
}

// FromTOML constructs the private key from an unmarshalled structure from
// TOML. The public key is left for the caller to load, it lives in its own
// file.
func (p *Pair) FromTOML(i interface{}) error {
	ptoml, ok := i.(*PairTOML)
	if !ok {
		return errors.New("key: private can't decode toml from non PairTOML struct")
	}
	secret, err := group.StringToInt(ptoml.Secret)
	if err != nil {
		return fmt.Errorf("key: decoding secret: %w", err)
	}
	groupHash, err := hex.DecodeString(ptoml.GroupHash)
	if err != nil {
		return fmt.Errorf("key: decoding group hash: %w", err)
	}
	p.Secret = secret
	p.Public = &Identity{Scheme: ptoml.Scheme, GroupHash: groupHash}
	return nil
}

// TOMLValue returns an empty TOML-compatible interface value
func (p *Pair) TOMLValue() interface{} {
	return &PairTOML{}
}

// TOML returns a TOML-compatible version of the public key
func (i *Identity) TOML() interface{} {
	return &PublicTOML{
		Key:       group.IntToString(i.Key),
		Scheme:    i.Scheme,
		GroupHash: hex.EncodeToString(i.GroupHash),
	}
}

// FromTOML reads the TOML description of the public key
func (i *Identity) FromTOML(t interface{}) error {
	ptoml, ok := t.(*PublicTOML)
	if !ok {
		return errors.New("key: public can't decode from non PublicTOML struct")
	}
	key, err := group.StringToInt(ptoml.Key)
	if err != nil {
		return fmt.Errorf("key: decoding public key: %w", err)
	}
	groupHash, err := hex.DecodeString(ptoml.GroupHash)
	if err != nil {
		return fmt.Errorf("key: decoding group hash: %w", err)
	}
	i.Key = key
	i.Scheme = ptoml.Scheme
	i.GroupHash = groupHash
	return nil
}

// TOMLValue returns an empty TOML-compatible interface value
func (i *Identity) TOMLValue() interface{} {
	return &PublicTOML{}
}

// Wipe zeroes the secret exponent in place. The pair cannot prove anything
// afterwards.
func (p *Pair) Wipe() {
	group.Wipe(p.Secret)
	p.Secret = nil
}
