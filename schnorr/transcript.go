package schnorr

import (
	"fmt"
	"math/big"

	json "github.com/nikkolasg/hexjson"
	"golang.org/x/crypto/blake2b"

	"github.com/paul-weiss/zkp/group"
)

// transcriptDST is the domain separation tag of the transcript digest.
var transcriptDST = []byte("zkp/1/transcript")

// Transcript is the public record of one proof: the commitment t, the
// challenge c and the response s. It is the only structure meant to cross a
// process boundary and carries no secret, so it is safe to log, store and
// relay.
type Transcript struct {
	T *big.Int
	C *big.Int
	S *big.Int
}

type transcriptJSON struct {
	T []byte `json:"t"`
	C []byte `json:"c"`
	S []byte `json:"s"`
}

// MarshalJSON encodes the triple with big-endian byte fields; through
// hexjson the integers appear as plain hex strings on the wire.
func (tr *Transcript) MarshalJSON() ([]byte, error) {
	return json.Marshal(&transcriptJSON{
		T: intBytes(tr.T),
		C: intBytes(tr.C),
		S: intBytes(tr.S),
	})
}

// UnmarshalJSON decodes a transcript produced by MarshalJSON.
func (tr *Transcript) UnmarshalJSON(b []byte) error {
	var w transcriptJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	tr.T = new(big.Int).SetBytes(w.T)
	tr.C = new(big.Int).SetBytes(w.C)
	tr.S = new(big.Int).SetBytes(w.S)
	return nil
}

func intBytes(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

// ValidateBasic performs the syntactic checks that need no group: every
// component present and non-negative.
func (tr *Transcript) ValidateBasic() error {
	if tr.T == nil || tr.C == nil || tr.S == nil {
		return fmt.Errorf("transcript incomplete: %w", ErrOutOfRange)
	}
	if tr.T.Sign() < 0 || tr.C.Sign() < 0 || tr.S.Sign() < 0 {
		return fmt.Errorf("transcript holds negative value: %w", ErrOutOfRange)
	}
	return nil
}

// Hash returns a digest identifying the transcript. The replay guard and the
// archive key on it.
func (tr *Transcript) Hash() []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(transcriptDST)
	_ = group.WriteOperand(h, tr.T)
	_ = group.WriteOperand(h, tr.C)
	_ = group.WriteOperand(h, tr.S)
	return h.Sum(nil)
}

// Equal reports whether both transcripts carry the same triple.
func (tr *Transcript) Equal(other *Transcript) bool {
	if tr == nil || other == nil {
		return tr == other
	}
	return intEqual(tr.T, other.T) && intEqual(tr.C, other.C) && intEqual(tr.S, other.S)
}

func intEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func (tr *Transcript) String() string {
	return fmt.Sprintf("transcript %x", tr.Hash()[:8])
}
