package zkp

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v2"

	"github.com/paul-weiss/zkp/group"
	"github.com/paul-weiss/zkp/key"
	"github.com/paul-weiss/zkp/metrics"
)

const spinnerRefresh = 100 * time.Millisecond

func paramsGenCmd(c *cli.Context) error {
	var params *group.Params
	if c.Bool(modpFlag.Name) {
		params = group.MODP2048()
	} else {
		bits := c.Int(bitsFlag.Name)
		s := spinner.New(spinner.CharSets[9], spinnerRefresh)
		s.Suffix = fmt.Sprintf("  searching for a %d-bit safe prime. This can take a while...", bits)
		s.FinalMSG = "\n"
		s.Start()
		var err error
		params, err = group.GenerateSafeParams(context.Background(), bits, entropySource(c))
		s.Stop()
		if err != nil {
			return fmt.Errorf("parameter search failed: %w", err)
		}
	}
	return paramsOut(c, params)
}

// paramsOut saves freshly generated parameters either to the file given with
// --out or into the config folder, then prints their fingerprint.
func paramsOut(c *cli.Context, params *group.Params) error {
	if c.IsSet(outFlag.Name) {
		outPath := c.String(outFlag.Name)
		if err := key.Save(outPath, params, false); err != nil {
			return fmt.Errorf("can't save parameters to %q: %w", outPath, err)
		}
		fmt.Fprintf(output, "Saved parameters to %s\n", outPath)
	} else {
		folder := c.String(folderFlag.Name)
		if err := key.NewFileStore(folder).SaveParams(params); err != nil {
			return fmt.Errorf("can't save parameters: %w", err)
		}
		fmt.Fprintf(output, "Saved parameters under %s\n", folder)
	}
	fmt.Fprintf(output, "%s\n", params)
	return nil
}

// loadParamsArg loads the parameter file named as first argument, falling
// back to the config folder when no argument is given. Loading validates the
// parameters, so a successful return means a usable group.
func loadParamsArg(c *cli.Context) (*group.Params, string, error) {
	if c.Args().Present() {
		file := c.Args().First()
		params := new(group.Params)
		if err := key.Load(file, params); err != nil {
			return nil, "", fmt.Errorf("loading parameters from %q: %w", file, err)
		}
		return params, file, nil
	}
	folder := c.String(folderFlag.Name)
	params, err := key.NewFileStore(folder).LoadParams()
	if err != nil {
		return nil, "", fmt.Errorf("loading parameters from folder %q: %w", folder, err)
	}
	return params, folder, nil
}

func paramsCheckCmd(c *cli.Context) error {
	params, where, err := loadParamsArg(c)
	if err != nil {
		metrics.ParamErrorCounter.Inc()
		return err
	}
	fmt.Fprintf(output, "Parameters in %s are valid: %s\n", where, params)
	return nil
}

func paramsShowCmd(c *cli.Context) error {
	params, where, err := loadParamsArg(c)
	if err != nil {
		return err
	}
	var buff bytes.Buffer
	if err := toml.NewEncoder(&buff).Encode(params.TOML()); err != nil {
		return fmt.Errorf("can't encode parameters to TOML: %w", err)
	}
	fmt.Fprintf(output, "Parameters in %s:\n%s\n%s\n", where, buff.String(), params)
	return nil
}
