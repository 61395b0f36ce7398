package schnorr

import "errors"

// Protocol errors. Range and commitment errors reject the proof attempt at
// hand but are never fatal to the process; parameter and key errors are
// surfaced at construction and must stop the caller. None of them carry
// secret material.
var (
	// ErrOutOfRange flags a protocol value outside its required range: a
	// challenge or response not in [0, q), or a commitment not in (0, p).
	// It marks a malformed proof as opposed to a wrong one.
	ErrOutOfRange = errors.New("schnorr: value out of range")

	// ErrNoCommitment is returned by Respond when no matching outstanding
	// commitment exists, either because Commit was never called or because
	// the nonce was already consumed or invalidated.
	ErrNoCommitment = errors.New("schnorr: no outstanding commitment")

	// ErrSecretOutOfRange rejects a secret exponent outside (0, q).
	ErrSecretOutOfRange = errors.New("schnorr: secret exponent out of range")

	// ErrSecretCleared is returned once the prover's secret has been wiped.
	ErrSecretCleared = errors.New("schnorr: prover secret has been cleared")

	// ErrKeyOutOfRange rejects a public key outside (0, p).
	ErrKeyOutOfRange = errors.New("schnorr: public key out of range")

	// ErrKeyNotInSubgroup rejects a public key that is not an element of
	// the order-q subgroup. Accepting one would let a peer confine the
	// exchange to a small subgroup.
	ErrKeyNotInSubgroup = errors.New("schnorr: public key not in the order-q subgroup")

	// ErrUnknownScheme is returned when resolving a challenge scheme name
	// that is not registered.
	ErrUnknownScheme = errors.New("schnorr: unknown challenge scheme")
)
