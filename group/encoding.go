package group

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math/big"
)

// WriteOperand writes v to w as a 4-byte big-endian length prefix followed by
// the minimal big-endian magnitude. Framing every operand keeps concatenated
// encodings unambiguous whatever the byte lengths involved; reordering or
// unframing operands is a protocol-breaking change.
func WriteOperand(w io.Writer, v *big.Int) error {
	var b []byte
	if v != nil {
		b = v.Bytes()
	}
	return WriteBytes(w, b)
}

// WriteBytes writes an arbitrary byte string with the same framing as
// WriteOperand. An empty string is framed too, so its absence cannot be
// confused with adjacent operands.
func WriteBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// IntToString returns the hex-encoded big-endian representation of v. The
// zero value encodes to the empty string.
func IntToString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return hex.EncodeToString(v.Bytes())
}

// StringToInt parses a hex-encoded big-endian integer produced by
// IntToString.
func StringToInt(s string) (*big.Int, error) {
	buff, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(buff), nil
}

// Wipe overwrites the limbs of v with zeros and leaves it holding zero. Use
// it on secret exponents and ephemeral nonces when they go out of scope; a
// plain reassignment would leave the old limbs in memory until collected.
func Wipe(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}
