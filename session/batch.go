package session

import (
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/paul-weiss/zkp/schnorr"
)

// VerifyBatch checks many transcripts against one verifier, running at most
// workers verifications at a time. Results line up with the input slice. A
// transcript failing for any reason, malformed or plain wrong, counts as not
// verified.
func VerifyBatch(verifier *schnorr.Verifier, context []byte, trs []*schnorr.Transcript, workers int) ([]bool, error) {
	if verifier == nil {
		return nil, errors.New("session: missing verifier")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]bool, len(trs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, tr := range trs {
		i, tr := i, tr
		g.Go(func() error {
			ok, err := verifier.VerifyTranscript(tr, context)
			results[i] = ok && err == nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
