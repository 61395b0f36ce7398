package zkp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paul-weiss/zkp/archive"
	"github.com/paul-weiss/zkp/archive/boltdb"
	"github.com/paul-weiss/zkp/fs"
	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/key"
	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/schnorr"
	"github.com/paul-weiss/zkp/session"
)

// replayGuardSize bounds the number of transcript digests remembered within
// one verify run.
const replayGuardSize = 1 << 16

func verifyCmd(c *cli.Context) error {
	args := c.Args()
	if !args.Present() {
		return errors.New("missing transcript files in argument. Abort")
	}

	params, err := verifyParams(c)
	if err != nil {
		return err
	}
	id, err := verifyIdentity(c)
	if err != nil {
		return err
	}
	verifier, err := id.Verifier(params)
	if err != nil {
		return fmt.Errorf("could not build verifier: %w", err)
	}

	files := args.Slice()
	trs := make([]*schnorr.Transcript, len(files))
	for i, file := range files {
		buff, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading transcript %q: %w", file, err)
		}
		tr := new(schnorr.Transcript)
		if err := json.Unmarshal(buff, tr); err != nil {
			return fmt.Errorf("decoding transcript %q: %w", file, err)
		}
		trs[i] = tr
	}

	results, err := session.VerifyBatch(verifier, contextBytes(c), trs, c.Int(workersFlag.Name))
	if err != nil {
		return err
	}

	ctx := context.Background()
	var store archive.Store
	if c.IsSet(archiveFlag.Name) {
		folder := c.String(archiveFlag.Name)
		if fs.CreateSecureFolder(folder) == "" {
			return fmt.Errorf("could not create archive folder %q", folder)
		}
		store, err = boltdb.NewBoltStore(ctx, log.DefaultLogger().Named("archive"), folder, nil)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer store.Close(ctx)
	}
	guard, err := session.NewReplayGuard(replayGuardSize)
	if err != nil {
		return err
	}

	var notAccepted int
	for i, ok := range results {
		verdict := "accepted"
		if !ok {
			verdict = "rejected"
		} else if replayed, err := alreadySeen(ctx, guard, store, trs[i]); err != nil {
			return err
		} else if replayed {
			verdict = "replayed"
		}
		if verdict != "accepted" {
			notAccepted++
		}
		fmt.Fprintf(output, "%s: %s\n", files[i], verdict)
	}

	if notAccepted > 0 {
		return fmt.Errorf("%d of %d transcripts not accepted", notAccepted, len(trs))
	}
	fmt.Fprintf(output, "All %d transcripts accepted\n", len(trs))
	return nil
}

// alreadySeen reports whether an accepted transcript was met before, either
// earlier in this run or in the archive. Fresh transcripts are archived on
// the way through when an archive is open.
func alreadySeen(ctx context.Context, guard *session.ReplayGuard, store archive.Store, tr *schnorr.Transcript) (bool, error) {
	if guard.Seen(tr) {
		return true, nil
	}
	if store == nil {
		return false, nil
	}
	known, err := store.Has(ctx, tr.Hash())
	if err != nil {
		return false, fmt.Errorf("querying archive: %w", err)
	}
	if known {
		return true, nil
	}
	if err := store.Put(ctx, tr); err != nil {
		return false, fmt.Errorf("archiving transcript: %w", err)
	}
	return false, nil
}

func verifyParams(c *cli.Context) (*group.Params, error) {
	if c.IsSet(paramsFlag.Name) {
		params := new(group.Params)
		if err := key.Load(c.String(paramsFlag.Name), params); err != nil {
			return nil, fmt.Errorf("loading parameters: %w", err)
		}
		return params, nil
	}
	params, err := key.NewFileStore(c.String(folderFlag.Name)).LoadParams()
	if err != nil {
		return nil, fmt.Errorf("loading parameters: %w", err)
	}
	return params, nil
}

func verifyIdentity(c *cli.Context) (*key.Identity, error) {
	if c.IsSet(publicFlag.Name) {
		id := new(key.Identity)
		if err := key.Load(c.String(publicFlag.Name), id); err != nil {
			return nil, fmt.Errorf("loading public identity: %w", err)
		}
		return id, nil
	}
	id, err := key.NewFileStore(c.String(folderFlag.Name)).LoadPublic()
	if err != nil {
		return nil, fmt.Errorf("loading public identity: %w", err)
	}
	return id, nil
}
