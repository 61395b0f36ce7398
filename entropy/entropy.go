// Package entropy gathers the randomness used by the protocol. Every random
// value the module draws (ephemeral nonces, interactive challenges, secret
// exponents) goes through this package so that callers can substitute their
// own entropy source.
package entropy

import (
	"bufio"
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os/exec"

	"github.com/drand/kyber/util/random"
)

// GetRandom reads n bytes of randomness from whatever Reader is passed in, and
// returns those bytes as the requested randomness.
func GetRandom(source io.Reader, n uint32) ([]byte, error) {
	if source == nil {
		source = rand.Reader
	}

	randomBytes := make([]byte, n)
	bytesRead, err := source.Read(randomBytes)
	if err != nil || uint32(bytesRead) != n {
		// If the custom entropy provides an error, fallback to Golang
		// crypto/rand generator.
		_, err := rand.Read(randomBytes)
		return randomBytes, err
	}
	return randomBytes, nil
}

// Stream returns a cipher stream fed by the given source. A nil source falls
// back to the operating system generator.
func Stream(source io.Reader) cipher.Stream {
	if source == nil {
		return random.New()
	}
	return random.New(source)
}

// Int returns a uniform random integer in [0, max) drawn from source.
// Candidates are sampled on max.BitLen() bits and rejected until one falls
// below max, so the result carries no modulo bias. max must be positive.
func Int(max *big.Int, source io.Reader) *big.Int {
	if max == nil || max.Sign() <= 0 {
		panic("entropy: sampling bound must be positive")
	}
	stream := Stream(source)
	bitlen := uint(max.BitLen())
	i := new(big.Int)
	for {
		i.SetBytes(random.Bits(bitlen, false, stream))
		if i.Cmp(max) < 0 {
			return i
		}
	}
}

// PositiveInt returns a uniform random integer in [1, max) drawn from source.
// max must be greater than one.
func PositiveInt(max *big.Int, source io.Reader) *big.Int {
	if max == nil || max.Cmp(big.NewInt(1)) <= 0 {
		panic("entropy: sampling bound must be greater than one")
	}
	return random.Int(max, Stream(source))
}

// ScriptReader holds the path of an executable providing user entropy.
type ScriptReader struct {
	Path string
}

var _ io.Reader = &ScriptReader{}

// Read calls the executable as many times needed to fill the array p
// n == len(p) if and only if err == nil
func (r *ScriptReader) Read(p []byte) (n int, err error) {
	if r.Path == "" {
		return 0, errors.New("no reader was provided")
	}
	var b bytes.Buffer
	read := 0
	for read < len(p) {
		cmd := exec.Command(r.Path) // #nosec
		cmd.Stdout = bufio.NewWriter(&b)
		err = cmd.Run()
		if err != nil {
			fmt.Printf("entropy: cannot read from the file: %s\v", err.Error())
			return read, err
		}
		read += copy(p[read:], b.Bytes())
	}
	return len(p), nil
}

// GetPath returns the path of the script
func (r *ScriptReader) GetPath() string {
	return r.Path
}

// NewScriptReader creates a new ScriptReader struct
func NewScriptReader(path string) *ScriptReader {
	return &ScriptReader{path}
}
