// Command wabisabi-sim drives the core's client-side protocol in-process,
// with no network transport, reproducing the end-to-end scenarios from
// spec §8 for manual inspection. It stubs the coordinator and wallet
// collaborators described in §6; neither is part of this module's scope.
package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

func cryptoRandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func scenarioS1(logger zerolog.Logger) error {
	gens := group.NewGenerators()
	rng := transcript.RandomSource(cryptoRandBytes)
	coord, err := newInProcessCoordinator(gens, rng)
	if err != nil {
		return fmt.Errorf("s1: %w", err)
	}
	client := credential.NewClient(gens, coord.params, k, 0, rng)

	req, vs, err := client.CreateRequestForZeroAmount()
	if err != nil {
		return fmt.Errorf("s1: create request: %w", err)
	}
	resp, err := coord.issueZero(req)
	if err != nil {
		return fmt.Errorf("s1: issue: %w", err)
	}
	creds, err := client.HandleResponse(resp, vs)
	if err != nil {
		return fmt.Errorf("s1: handle response: %w", err)
	}

	fmt.Printf("s1: issued %d zero-valued credentials\n", len(creds))
	for i, c := range creds {
		fmt.Printf("  credential %d: amount=%d vsize=%d\n", i, c.Amount, c.Vsize)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "wabisabi-sim",
		Usage: "drive the WabiSabi credential core through the spec's end-to-end scenarios",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log vertex lifecycle events at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:  "s1",
				Usage: "zero-value null request round-trip",
				Action: func(c *cli.Context) error {
					return scenarioS1(newLogger(c.Bool("verbose")))
				},
			},
			{
				Name:  "s2",
				Usage: "single input, single output",
				Action: func(c *cli.Context) error {
					return scenarioS2(newLogger(c.Bool("verbose")))
				},
			},
			{
				Name:  "s3",
				Usage: "splitting one input into two outputs",
				Action: func(c *cli.Context) error {
					return scenarioS3(newLogger(c.Bool("verbose")))
				},
			},
			{
				Name:  "s4",
				Usage: "merging three inputs requiring a reissuance vertex",
				Action: func(c *cli.Context) error {
					return scenarioS4(newLogger(c.Bool("verbose")))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
