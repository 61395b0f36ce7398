// Package schnorr implements a Sigma protocol proving knowledge of a
// discrete logarithm: given y = g^x mod p over a subgroup of prime order q,
// a prover convinces a verifier that it knows x without revealing it. The
// exchange runs in three moves (commitment, challenge, response) either
// interactively or through the Fiat-Shamir transform.
package schnorr

import "io"

// options collects the tunables shared by prover and verifier construction.
type options struct {
	source       io.Reader
	schemeName   string
	reduceSecret bool
}

// Option adjusts the construction of a Prover or a Verifier.
type Option func(*options)

func defaultOptions() *options {
	return &options{schemeName: DefaultSchemeID}
}

// WithRandomSource substitutes the entropy source used for ephemeral nonces
// and interactive challenges. A nil source keeps the operating system
// generator.
func WithRandomSource(r io.Reader) Option {
	return func(o *options) { o.source = r }
}

// WithScheme selects the challenge scheme by its registered name.
func WithScheme(name string) Option {
	return func(o *options) { o.schemeName = name }
}

// WithSecretReduction makes NewProver reduce an out-of-range secret mod q
// instead of rejecting it. Reduction maps distinct inputs to the same
// exponent without telling the caller, so it stays off unless explicitly
// requested.
func WithSecretReduction() Option {
	return func(o *options) { o.reduceSecret = true }
}
