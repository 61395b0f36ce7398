// Package zkp is a command line interface around the Schnorr proof engine.
// It generates group parameters and longterm keypairs, produces and checks
// proof transcripts, and runs a narrated demonstration of the protocol.
package zkp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"

	"github.com/paul-weiss/zkp/entropy"
	"github.com/paul-weiss/zkp/fs"
	"github.com/paul-weiss/zkp/key"
	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/metrics"
	"github.com/paul-weiss/zkp/metrics/pprof"
	"github.com/paul-weiss/zkp/schnorr"
)

// default output of the operational commands.
var output io.Writer = os.Stdout

// Automatically set through -ldflags
// Example: go install -ldflags "-X main.version=`git describe --tags`
//   -X main.buildDate=`date -u +%d/%m/%Y@%H:%M:%S` -X main.gitCommit=`git rev-parse HEAD`"
var (
	version   = "master"
	gitCommit = "none"
	buildDate = "unknown"
)

// DefaultConfigFolderName is the name of the folder containing the keys and
// group parameters.
const DefaultConfigFolderName = ".zkp"

// DefaultConfigFolder returns the default path of the configuration folder.
func DefaultConfigFolder() string {
	return path.Join(fs.HomeFolder(), DefaultConfigFolderName)
}

func banner() {
	fmt.Fprintf(output, "zkp %v (date %v, commit %v)\n", version, buildDate, gitCommit)
}

var folderFlag = &cli.StringFlag{
	Name:  "folder",
	Value: DefaultConfigFolder(),
	Usage: "Folder to keep all zkp cryptographic information, with absolute path.",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, verbosity is at the debug level",
}

var metricsFlag = &cli.StringFlag{
	Name:  "metrics",
	Usage: "Launch a metrics server at the specified (host:)port.",
}

var schemeFlag = &cli.StringFlag{
	Name:  "scheme",
	Value: schnorr.DefaultSchemeID,
	Usage: "Challenge scheme to bind the keypair to. One of: " + strings.Join(schnorr.ListSchemes(), ", ") + ".",
}

var sourceFlag = &cli.StringFlag{
	Name: "source",
	Usage: "Path of an executable whose output is mixed into the randomness " +
		"used for key and parameter generation.",
}

var contextFlag = &cli.StringFlag{
	Name: "context",
	Usage: "Application context string bound into derived challenges. A proof " +
		"made under one context does not verify under another.",
}

var bitsFlag = &cli.IntFlag{
	Name:  "bits",
	Value: 2048,
	Usage: "Bit size of the safe-prime modulus to search for.",
}

var modpFlag = &cli.BoolFlag{
	Name:  "modp",
	Usage: "Install the 2048-bit MODP group of RFC 3526 instead of searching for a fresh one.",
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Save the result into a separate file instead of the config folder.",
}

var publicFlag = &cli.StringFlag{
	Name:  "public",
	Usage: "Path of the public identity file the transcripts are checked against.",
}

var paramsFlag = &cli.StringFlag{
	Name:  "params",
	Usage: "Path of the group parameter file. Defaults to the one in the config folder.",
}

var archiveFlag = &cli.StringFlag{
	Name: "archive",
	Usage: "Folder of the transcript archive. Accepted transcripts are stored " +
		"there and transcripts already present are refused as replays.",
}

var workersFlag = &cli.IntFlag{
	Name:  "workers",
	Usage: "Number of transcripts verified in parallel. Defaults to the number of CPUs.",
}

var interactiveFlag = &cli.BoolFlag{
	Name:  "interactive",
	Usage: "Run the demonstration with a random verifier challenge instead of a derived one.",
}

var appCommands = []*cli.Command{
	{
		Name: "generate-keypair",
		Usage: "Generate the longterm keypair (zkp_id.private, zkp_id.public) " +
			"for the group parameters installed in the config folder.\n",
		Flags: toArray(folderFlag, schemeFlag, sourceFlag),
		Action: func(c *cli.Context) error {
			banner()
			return keygenCmd(c)
		},
	},
	{
		Name:  "params",
		Usage: "Manage the group parameters proofs are made in.",
		Subcommands: []*cli.Command{
			{
				Name: "generate",
				Usage: "Search for a safe-prime group (p = 2q+1) of the given modulus " +
					"size and install it, or save it with --out.\n",
				Flags: toArray(folderFlag, bitsFlag, modpFlag, sourceFlag, outFlag),
				Action: func(c *cli.Context) error {
					banner()
					return paramsGenCmd(c)
				},
			},
			{
				Name: "check",
				Usage: "Validate a group parameter file: primality of p and q, the " +
					"subgroup order and the generator.\n",
				ArgsUsage: "<file> is the parameter file to check. The config folder is checked when omitted.",
				Flags:     toArray(folderFlag),
				Action:    paramsCheckCmd,
			},
			{
				Name:      "show",
				Usage:     "Print a group parameter file together with its fingerprint.\n",
				ArgsUsage: "<file> is the parameter file to show. The config folder is used when omitted.",
				Flags:     toArray(folderFlag),
				Action:    paramsShowCmd,
			},
		},
	},
	{
		Name: "prove",
		Usage: "Produce a non-interactive proof of knowledge of the stored secret " +
			"key and print it, or save it with --out.\n",
		Flags:  toArray(folderFlag, contextFlag, outFlag),
		Action: proveCmd,
	},
	{
		Name: "verify",
		Usage: "Verify one or more proof transcripts against a public identity. " +
			"The command fails if any transcript is not accepted.\n",
		ArgsUsage: "<transcript.json>... are the transcript files to verify.",
		Flags:     toArray(folderFlag, publicFlag, paramsFlag, contextFlag, archiveFlag, workersFlag),
		Action:    verifyCmd,
	},
	{
		Name: "demo",
		Usage: "Walk through one proof on toy parameters, narrating the three " +
			"moves of the exchange.\n",
		Flags:  toArray(interactiveFlag),
		Action: demoCmd,
	},
}

// CLI runs the zkp app
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "zkp"
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(output, "zkp %v (date %v, commit %v)\n", version, buildDate, gitCommit)
	}

	app.ExitErrHandler = func(context *cli.Context, err error) {
		// override to prevent default behavior of calling OS.exit(1),
		// when tests expect to be able to run multiple commands.
	}
	app.Version = version
	app.Usage = "zero-knowledge proof of discrete-log knowledge"
	// =====Commands=====
	app.Commands = appCommands
	app.Flags = toArray(verboseFlag, metricsFlag)
	app.Before = setup
	return app
}

func setup(c *cli.Context) error {
	if c.Bool(verboseFlag.Name) {
		log.ConfigureDefaultLogger(os.Stderr, log.DebugLevel, false)
	}
	if c.IsSet(metricsFlag.Name) {
		_ = metrics.Start(c.String(metricsFlag.Name), pprof.WithProfile())
	}
	return nil
}

func toArray(flags ...cli.Flag) []cli.Flag {
	return flags
}

// entropySource returns the user-provided entropy reader, or nil to draw
// from the operating system generator.
func entropySource(c *cli.Context) io.Reader {
	if c.IsSet(sourceFlag.Name) {
		return entropy.NewScriptReader(c.String(sourceFlag.Name))
	}
	return nil
}

func contextBytes(c *cli.Context) []byte {
	if c.IsSet(contextFlag.Name) {
		return []byte(c.String(contextFlag.Name))
	}
	return nil
}

func keygenCmd(c *cli.Context) error {
	folder := c.String(folderFlag.Name)
	fileStore := key.NewFileStore(folder)

	params, err := fileStore.LoadParams()
	if err != nil {
		if errors.Is(err, key.ErrAbsent) {
			return fmt.Errorf("no group parameters in %q. Run `zkp params generate` first", folder)
		}
		return fmt.Errorf("could not load group parameters: %w", err)
	}

	if _, err := fileStore.LoadKeyPair(); err == nil {
		fmt.Fprintf(output, "Keypair already present in `%s`.\nRemove it before generating a new one\n", folder)
		return nil
	}

	fmt.Fprintf(output, "Generating keypair on %s\n", params)
	pair, err := key.NewPair(params, c.String(schemeFlag.Name), entropySource(c))
	if err != nil {
		return fmt.Errorf("could not generate keypair: %w", err)
	}
	if err := fileStore.SaveKeyPair(pair); err != nil {
		return fmt.Errorf("could not save key: %w", err)
	}

	fullpath := path.Join(folder, key.KeyFolderName)
	absPath, err := filepath.Abs(fullpath)
	if err != nil {
		return fmt.Errorf("err getting full path: %w", err)
	}
	fmt.Fprintln(output, "Generated keys at ", absPath)
	var buff bytes.Buffer
	if err := toml.NewEncoder(&buff).Encode(pair.Public.TOML()); err != nil {
		panic(err)
	}
	buff.WriteString("\n")
	fmt.Fprintln(output, buff.String())
	return nil
}
