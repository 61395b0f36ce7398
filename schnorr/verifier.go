package schnorr

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/paul-weiss/zkp/entropy"
	"github.com/paul-weiss/zkp/group"
)

// Verifier holds the public side of the relation: the group description and
// the public key y whose discrete logarithm the prover claims to know. A
// verifier is read-only after construction and safe for concurrent use.
type Verifier struct {
	params *group.Params
	scheme *Scheme
	source io.Reader
	y      *big.Int
}

// NewVerifier builds a verifier over the given validated parameters and
// public key. The key must lie in (0, p) and in the order-q subgroup;
// accepting anything else would let a peer confine the exchange to a small
// subgroup and pry at the secret.
func NewVerifier(params *group.Params, y *big.Int, opts ...Option) (*Verifier, error) {
	if params == nil {
		return nil, errors.New("schnorr: nil parameters")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	scheme, err := SchemeFromName(o.schemeName)
	if err != nil {
		return nil, err
	}

	if y == nil || y.Sign() <= 0 || y.Cmp(params.P) >= 0 {
		return nil, ErrKeyOutOfRange
	}
	if new(big.Int).Exp(y, params.Q, params.P).Cmp(big.NewInt(1)) != 0 {
		return nil, ErrKeyNotInSubgroup
	}

	return &Verifier{
		params: params,
		scheme: scheme,
		source: o.source,
		y:      new(big.Int).Set(y),
	}, nil
}

// PublicKey returns a copy of the key the verifier checks against.
func (v *Verifier) PublicKey() *big.Int {
	return new(big.Int).Set(v.y)
}

// Params returns the group description the verifier operates in.
func (v *Verifier) Params() *group.Params {
	return v.params
}

// Scheme returns the challenge scheme used for non-interactive proofs.
func (v *Verifier) Scheme() *Scheme {
	return v.scheme
}

// Challenge draws a fresh uniform challenge in [0, q) for the interactive
// flow. It is independent of the commitment on purpose: the verifier's sole
// contribution is unpredictability, fresh on every session. Reusing a
// challenge, or deriving it from a counter, voids the soundness guarantee.
func (v *Verifier) Challenge() *big.Int {
	return entropy.Int(v.params.Q, v.source)
}

// DeriveChallenge computes the Fiat-Shamir challenge binding the commitment
// t, the verifier's key and the optional context under the configured
// scheme.
func (v *Verifier) DeriveChallenge(t *big.Int, context []byte) (*big.Int, error) {
	return v.scheme.Challenge(v.params.Q, t, v.y, context)
}

// Verify evaluates the proof equation g^s == t * y^c mod p. Challenges and
// responses outside [0, q) are malformed and yield ErrOutOfRange; a plain
// false means the proof is wrong. Callers reporting to an untrusted peer
// should collapse both outcomes into a single reject.
func (v *Verifier) Verify(t, c, s *big.Int) (bool, error) {
	if t == nil || c == nil || s == nil {
		return false, fmt.Errorf("missing proof value: %w", ErrOutOfRange)
	}
	if c.Sign() < 0 || c.Cmp(v.params.Q) >= 0 {
		return false, fmt.Errorf("challenge: %w", ErrOutOfRange)
	}
	if s.Sign() < 0 || s.Cmp(v.params.Q) >= 0 {
		return false, fmt.Errorf("response: %w", ErrOutOfRange)
	}

	left := new(big.Int).Exp(v.params.G, s, v.params.P)
	right := new(big.Int).Exp(v.y, c, v.params.P)
	right.Mul(right, t)
	right.Mod(right, v.params.P)
	return left.Cmp(right) == 0, nil
}

// VerifyTranscript checks a complete non-interactive transcript: the
// commitment must be a canonical group element, the challenge must match the
// Fiat-Shamir derivation for (t, y, context) and the proof equation must
// hold. A challenge mismatch is a wrong proof, not an error.
func (v *Verifier) VerifyTranscript(tr *Transcript, context []byte) (bool, error) {
	if tr == nil {
		return false, fmt.Errorf("missing transcript: %w", ErrOutOfRange)
	}
	if err := tr.ValidateBasic(); err != nil {
		return false, err
	}
	if tr.T.Sign() <= 0 || tr.T.Cmp(v.params.P) >= 0 {
		return false, fmt.Errorf("commitment: %w", ErrOutOfRange)
	}

	expected, err := v.DeriveChallenge(tr.T, context)
	if err != nil {
		return false, err
	}
	if expected.Cmp(tr.C) != 0 {
		return false, nil
	}
	return v.Verify(tr.T, tr.C, tr.S)
}
