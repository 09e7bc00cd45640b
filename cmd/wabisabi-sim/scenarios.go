package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wabisabi-go/core/graph"
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/runtime"
	"github.com/wabisabi-go/core/transcript"
)

// k is the protocol's credential multiplicity, fixed per §4.7's "the
// design must not special-case this constant" — everything downstream
// still takes it as a parameter.
const k = 2

// runRound builds a graph from the given input/output amounts, resolves
// it, and executes it against an in-process coordinator, printing each
// vertex's role and the amounts that flowed across its edges.
func runRound(name string, inputs, outputs []int64, logger zerolog.Logger) error {
	g := graph.New(k, []string{"amount"})
	for _, amt := range inputs {
		g.AddInput(map[string]int64{"amount": amt})
	}
	for _, amt := range outputs {
		g.AddOutput(map[string]int64{"amount": amt})
	}

	if err := g.ResolveNegativeBalanceNodes("amount"); err != nil {
		return fmt.Errorf("%s: resolve balances: %w", name, err)
	}
	if err := g.ResolveZeroCredentials("amount"); err != nil {
		return fmt.Errorf("%s: resolve zero credentials: %w", name, err)
	}
	plan, err := g.Snapshot()
	if err != nil {
		return fmt.Errorf("%s: snapshot: %w", name, err)
	}

	reissuances := 0
	for _, v := range plan.Vertices {
		if v.Kind == graph.Reissuance {
			reissuances++
		}
	}
	fmt.Printf("%s: %d inputs, %d outputs, %d reissuance vertices, %d edges\n",
		name, len(inputs), len(outputs), reissuances, len(plan.Edges))
	for _, e := range plan.Edges {
		fmt.Printf("  edge %d -> %d: %d sats\n", e.From, e.To, e.Amount)
	}

	gens := group.NewGenerators()
	rng := transcript.RandomSource(cryptoRandBytes)
	coord, err := newInProcessCoordinator(gens, rng)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	handler := newSimHandler(gens, coord, k, rng, logger)

	ex := runtime.NewExecutor(5*time.Second, logger)
	if err := ex.Run(context.Background(), plan, handler); err != nil {
		return fmt.Errorf("%s: execute: %w", name, err)
	}
	fmt.Printf("%s: round completed, all credentials issued\n", name)
	return nil
}

func scenarioS2(logger zerolog.Logger) error {
	return runRound("s2", []int64{1_000_000}, []int64{1_000_000}, logger)
}

func scenarioS3(logger zerolog.Logger) error {
	return runRound("s3", []int64{1_000_000}, []int64{600_000, 400_000}, logger)
}

func scenarioS4(logger zerolog.Logger) error {
	return runRound("s4", []int64{300_000, 300_000, 400_000}, []int64{1_000_000}, logger)
}
