package schnorr

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/paul-weiss/zkp/entropy"
	"github.com/paul-weiss/zkp/group"
)

// Nonce holds the ephemeral exponent behind a single outstanding commitment.
// Commit creates it, Respond consumes it; it is never reused and wiping it
// erases the exponent from memory.
type Nonce struct {
	r *big.Int
}

func (n *Nonce) wipe() {
	group.Wipe(n.r)
	n.r = nil
}

// Prover holds the secret exponent x and proves knowledge of it. A prover
// keeps at most one outstanding commitment: committing again invalidates the
// previous nonce, responding consumes it. The mutex serializes the methods so
// the single-commitment rule holds under concurrent misuse.
type Prover struct {
	mu     sync.Mutex
	params *group.Params
	scheme *Scheme
	source io.Reader

	x     *big.Int
	y     *big.Int
	nonce *Nonce
}

// NewProver builds a prover over the given validated parameters. The secret
// must lie in (0, q); out-of-range secrets are rejected unless
// WithSecretReduction was given, in which case they are reduced mod q first.
// The secret is copied, so the caller may wipe its own integer afterwards.
func NewProver(params *group.Params, secret *big.Int, opts ...Option) (*Prover, error) {
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

	if secret == nil {
		return nil, ErrSecretOutOfRange
	}
	x := new(big.Int).Set(secret)
	if x.Sign() <= 0 || x.Cmp(params.Q) >= 0 {
		if !o.reduceSecret {
			return nil, ErrSecretOutOfRange
		}
		x.Mod(x, params.Q)
		if x.Sign() == 0 {
			return nil, ErrSecretOutOfRange
		}
	}

	return &Prover{
		params: params,
		scheme: scheme,
		source: o.source,
		x:      x,
		y:      new(big.Int).Exp(params.G, x, params.P),
	}, nil
}

// PublicKey returns a copy of y = g^x mod p.
func (p *Prover) PublicKey() *big.Int {
	return new(big.Int).Set(p.y)
}

// Params returns the group description the prover operates in.
func (p *Prover) Params() *group.Params {
	return p.params
}

// Scheme returns the challenge scheme used for non-interactive proofs.
func (p *Prover) Scheme() *Scheme {
	return p.scheme
}

// Commit opens a proof attempt: it samples a fresh ephemeral exponent r
// uniformly from [0, q) and returns the nonce holding it along with the
// commitment t = g^r mod p. A previously outstanding nonce is wiped and
// invalidated, keeping at most one commitment live per prover.
func (p *Prover) Commit() (*Nonce, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.x == nil {
		return nil, nil, ErrSecretCleared
	}
	if p.nonce != nil {
		p.nonce.wipe()
		p.nonce = nil
	}

	r := entropy.Int(p.params.Q, p.source)
	t := new(big.Int).Exp(p.params.G, r, p.params.P)
	n := &Nonce{r: r}
	p.nonce = n
	return n, t, nil
}

// Respond closes the proof attempt opened by Commit: given a challenge c in
// [0, q) it computes s = (r + c*x) mod q and consumes the nonce, wiping r.
// The nonce must be the outstanding one. Answering two challenges from the
// same nonce would hand out two linear equations in r and x, and with them
// the secret itself.
func (p *Prover) Respond(n *Nonce, c *big.Int) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.x == nil {
		return nil, ErrSecretCleared
	}
	if n == nil || n != p.nonce || n.r == nil {
		return nil, ErrNoCommitment
	}
	if c == nil || c.Sign() < 0 || c.Cmp(p.params.Q) >= 0 {
		return nil, fmt.Errorf("challenge: %w", ErrOutOfRange)
	}

	s := new(big.Int).Mul(c, p.x)
	s.Add(s, n.r)
	s.Mod(s, p.params.Q)

	p.nonce = nil
	n.wipe()
	return s, nil
}

// Discard drops an outstanding nonce without responding, wiping the
// ephemeral exponent. Discarding a foreign or already-consumed nonce is a
// no-op.
func (p *Prover) Discard(n *Nonce) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n != nil && n == p.nonce {
		p.nonce = nil
		n.wipe()
	}
}

// Clear wipes the secret exponent and any outstanding nonce. The prover is
// unusable afterwards.
func (p *Prover) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nonce != nil {
		p.nonce.wipe()
		p.nonce = nil
	}
	if p.x != nil {
		group.Wipe(p.x)
		p.x = nil
	}
}

// Prove runs the non-interactive flow in one call: commit, derive the
// challenge from (t, y, context) under the prover's scheme, respond. The
// returned transcript is self-contained and carries no secret.
func (p *Prover) Prove(context []byte) (*Transcript, error) {
	n, t, err := p.Commit()
	if err != nil {
		return nil, err
	}
	c, err := p.scheme.Challenge(p.params.Q, t, p.y, context)
	if err != nil {
		p.Discard(n)
		return nil, err
	}
	s, err := p.Respond(n, c)
	if err != nil {
		return nil, err
	}
	return &Transcript{T: t, C: c, S: s}, nil
}
