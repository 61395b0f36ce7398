package zkp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paul-weiss/zkp/key"
)

func proveCmd(c *cli.Context) error {
	folder := c.String(folderFlag.Name)
	fileStore := key.NewFileStore(folder)

	params, err := fileStore.LoadParams()
	if err != nil {
		return fmt.Errorf("could not load group parameters: %w", err)
	}
	pair, err := fileStore.LoadKeyPair()
	if err != nil {
		if errors.Is(err, key.ErrAbsent) {
			return fmt.Errorf("no keypair in %q. Run `zkp generate-keypair` first", folder)
		}
		return fmt.Errorf("could not load keypair: %w", err)
	}

	prover, err := pair.Prover(params)
	if err != nil {
		return fmt.Errorf("could not build prover: %w", err)
	}
	defer prover.Clear()
	defer pair.Wipe()

	tr, err := prover.Prove(contextBytes(c))
	if err != nil {
		return fmt.Errorf("could not produce proof: %w", err)
	}
	buff, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("could not encode transcript: %w", err)
	}

	if c.IsSet(outFlag.Name) {
		outPath := c.String(outFlag.Name)
		if err := os.WriteFile(outPath, append(buff, '\n'), 0600); err != nil {
			return fmt.Errorf("can't save transcript to %q: %w", outPath, err)
		}
		fmt.Fprintf(output, "Saved transcript to %s\n", outPath)
		return nil
	}
	fmt.Fprintf(output, "%s\n", buff)
	return nil
}
