package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestScenarioS2CompletesEndToEnd(t *testing.T) {
	require.NoError(t, scenarioS2(zerolog.Nop()))
}

func TestScenarioS3CompletesEndToEnd(t *testing.T) {
	require.NoError(t, scenarioS3(zerolog.Nop()))
}

func TestScenarioS4CompletesEndToEnd(t *testing.T) {
	require.NoError(t, scenarioS4(zerolog.Nop()))
}

func TestScenarioS1CompletesEndToEnd(t *testing.T) {
	require.NoError(t, scenarioS1(zerolog.Nop()))
}
