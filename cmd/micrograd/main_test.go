package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/born-ml/micrograd/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Version(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, []string{"version"}))
	require.Equal(t, "micrograd "+cli.Version+"\n", out.String())
}

func TestRun_NeuronLogs(t *testing.T) {
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	dotPath := filepath.Join(t.TempDir(), "graph.dot")

	err := run(context.Background(), out, logs, []string{"-log-format", "json", "neuron", "-dot", dotPath})

	require.NoError(t, err)
	require.Contains(t, out.String(), "o  = 0.7071")
	require.Contains(t, logs.String(), `"msg":"Graph written."`)
}
