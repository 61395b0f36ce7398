package zkp

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/urfave/cli/v2"

	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/schnorr"
	"github.com/paul-weiss/zkp/session"
)

// demoCmd walks one proof through a session on small parameters, printing
// every value that crosses the wire. The secret is fixed so two runs can be
// compared move by move.
func demoCmd(c *cli.Context) error {
	fmt.Fprintln(output, "Generating parameters for demonstration...")
	params, err := group.NewParams(big.NewInt(23), big.NewInt(11), big.NewInt(4))
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Parameters generated:\np = %v\nq = %v\ng = %v\n", params.P, params.Q, params.G)

	secret := big.NewInt(6)
	prover, err := schnorr.NewProver(params, secret)
	if err != nil {
		return err
	}
	verifier, err := schnorr.NewVerifier(params, prover.PublicKey())
	if err != nil {
		return err
	}
	sess, err := session.New(prover, verifier)
	if err != nil {
		return err
	}

	fmt.Fprintln(output, "\nStarting zero knowledge proof demonstration...")
	fmt.Fprintln(output, "Prover knows x such that y = g^x mod p")
	fmt.Fprintf(output, "Public key y = %v\n", prover.PublicKey())

	t, err := sess.Commit()
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "\nStep 1: Prover generates random commitment t = %v\n", t)

	var chal *big.Int
	if c.Bool(interactiveFlag.Name) {
		if chal, err = sess.Challenge(); err != nil {
			return err
		}
		fmt.Fprintf(output, "Step 2: Verifier draws random challenge c = %v\n", chal)
	} else {
		if chal, err = sess.DeriveChallenge(); err != nil {
			return err
		}
		fmt.Fprintf(output, "Step 2: Verifier derives challenge c = H(t, y) mod q = %v\n", chal)
	}

	s, err := sess.Respond()
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Step 3: Prover generates response s = (r + c*x) mod q = %v\n", s)

	valid, err := sess.Verify()
	if err != nil {
		return err
	}
	verdict := "REJECTED"
	if valid {
		verdict = "ACCEPTED"
	}
	fmt.Fprintf(output, "\nVerification result: %s\n", verdict)
	if valid {
		fmt.Fprintln(output, "The prover has demonstrated knowledge of the secret without revealing it")
		fmt.Fprintf(output, "Secret value used (for demonstration): x = %v\n", secret)
	}

	tr, err := sess.Transcript()
	if err != nil {
		return err
	}
	buff, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Transcript: %s\n", buff)
	return nil
}
