package group

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// MinModulusBits is the smallest modulus size GenerateSafeParams accepts.
// Groups below this size are built by hand for tests, not searched for.
const MinModulusBits = 16

// GenerateSafeParams searches for a safe-prime group with a modulus of the
// requested bit size: candidate orders q are drawn until p = 2q+1 passes the
// primality test, and the generator is fixed to 4. Being a square, 4 lies in
// the subgroup of quadratic residues, which for p = 2q+1 has order exactly q,
// and 4 != 1 mod p rules out the trivial order.
//
// The search runs until it succeeds or ctx is cancelled. A nil source draws
// candidates from crypto/rand.
func GenerateSafeParams(ctx context.Context, bits int, source io.Reader) (*Params, error) {
	if bits < MinModulusBits {
		return nil, fmt.Errorf("group: modulus size %d bits is below the minimum of %d", bits, MinModulusBits)
	}
	if source == nil {
		source = rand.Reader
	}

	one := big.NewInt(1)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		q, err := rand.Prime(source, bits-1)
		if err != nil {
			return nil, fmt.Errorf("group: drawing order candidate: %w", err)
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if !p.ProbablyPrime(millerRabinRounds) {
			continue
		}
		return NewParams(p, q, big.NewInt(4))
	}
}
