// Package group describes the algebraic setting the protocol runs in: a
// multiplicative subgroup of prime order q inside the integers modulo a
// prime p, generated by g. Parameters are validated once at construction and
// never mutated afterwards, so a single instance can be shared by reference
// between any number of provers and verifiers.
package group

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/blake2b"
)

// Errors returned by parameter validation. Validate aggregates every defect
// it finds, so callers should test with errors.Is rather than equality.
var (
	// ErrNotPrime flags a modulus or subgroup order that failed the
	// primality test.
	ErrNotPrime = errors.New("group: parameter is not prime")
	// ErrOrderMismatch flags a subgroup order that does not divide p-1.
	ErrOrderMismatch = errors.New("group: subgroup order does not divide p-1")
	// ErrDegenerateGenerator flags a generator outside (1, p) or one that
	// does not generate a subgroup of order exactly q.
	ErrDegenerateGenerator = errors.New("group: generator does not generate a subgroup of order q")
)

// millerRabinRounds is the number of Miller-Rabin rounds used on top of the
// Baillie-PSW test run by math/big, keeping the false-positive probability
// below 2^-128.
const millerRabinRounds = 64

// paramsDST is the domain separation tag of the parameter fingerprint.
var paramsDST = []byte("zkp/1/params")

// Params holds the public group description: the field modulus P, the prime
// order Q of the subgroup and a generator G of that subgroup. Treat a Params
// value as read-only once built.
type Params struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// NewParams copies the given integers into a Params value and validates it.
// The copies keep later mutations of the caller's integers from reaching a
// shared instance.
func NewParams(p, q, g *big.Int) (*Params, error) {
	if p == nil || q == nil || g == nil {
		return nil, errors.New("group: nil parameter")
	}
	params := &Params{
		P: new(big.Int).Set(p),
		Q: new(big.Int).Set(q),
		G: new(big.Int).Set(g),
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks every invariant the triple must satisfy: p and q prime,
// q dividing p-1, and g generating a subgroup of order exactly q. All
// defects found are reported together.
func (p *Params) Validate() error {
	if p.P == nil || p.Q == nil || p.G == nil {
		return errors.New("group: nil parameter")
	}

	var result *multierror.Error
	if !isPrime(p.P) {
		result = multierror.Append(result, fmt.Errorf("modulus p: %w", ErrNotPrime))
	}
	if !isPrime(p.Q) {
		result = multierror.Append(result, fmt.Errorf("subgroup order q: %w", ErrNotPrime))
	}

	pMinusOne := new(big.Int).Sub(p.P, big.NewInt(1))
	if p.Q.Sign() <= 0 || new(big.Int).Mod(pMinusOne, p.Q).Sign() != 0 {
		result = multierror.Append(result, ErrOrderMismatch)
	}

	one := big.NewInt(1)
	if p.G.Cmp(one) <= 0 || p.G.Cmp(p.P) >= 0 {
		result = multierror.Append(result, fmt.Errorf("generator outside (1, p): %w", ErrDegenerateGenerator))
	} else if new(big.Int).Exp(p.G, p.Q, p.P).Cmp(one) != 0 {
		// With q prime, g != 1 together with g^q = 1 mod p pins the
		// order of g to exactly q. An element of smaller order would
		// confine responses to a subgroup and leak bits of the secret.
		result = multierror.Append(result, fmt.Errorf("generator order: %w", ErrDegenerateGenerator))
	}

	return result.ErrorOrNil()
}

func isPrime(v *big.Int) bool {
	return v.Sign() > 0 && v.ProbablyPrime(millerRabinRounds)
}

// Hash returns a fingerprint of the parameter triple. Key files and archived
// transcripts record it so that material generated for one group cannot be
// silently replayed under another.
func (p *Params) Hash() []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(paramsDST)
	_ = WriteOperand(h, p.P)
	_ = WriteOperand(h, p.Q)
	_ = WriteOperand(h, p.G)
	return h.Sum(nil)
}

// Equal reports whether both descriptions denote the same group.
func (p *Params) Equal(p2 *Params) bool {
	if p == nil || p2 == nil {
		return p == p2
	}
	return p.P.Cmp(p2.P) == 0 &&
		p.Q.Cmp(p2.Q) == 0 &&
		p.G.Cmp(p2.G) == 0
}

func (p *Params) String() string {
	return fmt.Sprintf("group %x (p %d bits, q %d bits)", p.Hash()[:8], p.P.BitLen(), p.Q.BitLen())
}
