package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/micrograd/internal/ctxlog"
	"github.com/born-ml/micrograd/internal/parallel"
	"github.com/stretchr/testify/require"
)

func quietContext() context.Context {
	logger := NewLogger(&Options{LogLevel: "error", LogFormat: "text"}, &bytes.Buffer{})
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestParse_NoCommand(t *testing.T) {
	out := &bytes.Buffer{}
	opts, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, opts)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Contains(t, out.String(), "Commands:")
}

func TestParse_Defaults(t *testing.T) {
	opts, shouldExit, err := Parse([]string{"neuron"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, &Options{
		Command:   "neuron",
		LogFormat: "text",
		LogLevel:  "info",
		DotPath:   "graph.dot",
	}, opts)
}

func TestParse_TrainFlags(t *testing.T) {
	args := []string{"-log-level", "DEBUG", "-log-format", "json", "train", "-config", "run.hcl", "-var", "lr=0.1", "-var", "steps=10"}
	opts, _, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, "train", opts.Command)
	require.Equal(t, "debug", opts.LogLevel)
	require.Equal(t, "json", opts.LogFormat)
	require.Equal(t, "run.hcl", opts.ConfigPath)
	require.Equal(t, []string{"lr=0.1", "steps=10"}, opts.Vars)
	require.Equal(t, 1, opts.Seeds)
	require.Equal(t, parallel.DefaultConfig().Workers, opts.Workers)
}

func TestParse_SweepFlags(t *testing.T) {
	opts, _, err := Parse([]string{"train", "-seeds", "8", "-workers", "2"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, 8, opts.Seeds)
	require.Equal(t, 2, opts.Workers)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"unknown flag":    {[]string{"--nope"}, "flag provided but not defined: -nope"},
		"unknown command": {[]string{"fly"}, `unknown command "fly"`},
		"log format":      {[]string{"-log-format", "xml", "demo"}, "invalid log-format"},
		"log level":       {[]string{"-log-level", "trace", "demo"}, "invalid log-level"},
		"command flag":    {[]string{"demo", "-dot", "x"}, "flag provided but not defined: -dot"},
		"extra args":      {[]string{"version", "now"}, "unexpected arguments: now"},
		"zero seeds":      {[]string{"train", "-seeds", "0"}, "-seeds and -workers must be positive"},
		"zero workers":    {[]string{"train", "-workers", "0"}, "-seeds and -workers must be positive"},
		"sweep save":      {[]string{"train", "-seeds", "2", "-save", "x"}, "cannot be combined with -seeds"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(tt.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Options{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.Equal(t, "WARN", rec["level"])
}

func TestRun_Version(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Run(quietContext(), &Options{Command: "version"}, out))
	require.Equal(t, "micrograd "+Version+"\n", out.String())
}

func TestRun_Demo(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Run(quietContext(), &Options{Command: "demo"}, out))
	require.Equal(t, "g     = 24.7041\ndg/da = 138.8338\ndg/db = 645.5773\n", out.String())
}

func TestRun_Neuron(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "neuron.dot")
	out := &bytes.Buffer{}

	require.NoError(t, Run(quietContext(), &Options{Command: "neuron", DotPath: dotPath}, out))

	require.Contains(t, out.String(), "o  = 0.7071")
	require.Contains(t, out.String(), "dx1 = -1.5000")
	require.Contains(t, out.String(), "dw1 = 1.0000")
	require.Contains(t, out.String(), "dx2 = 0.5000")
	require.Contains(t, out.String(), "dw2 = 0.0000")
	require.Contains(t, out.String(), "db  = 0.5000")

	src, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(src), "digraph"))
	require.Contains(t, string(src), "tanh")
}

func TestRun_NeuronBadPath(t *testing.T) {
	opts := &Options{Command: "neuron", DotPath: filepath.Join(t.TempDir(), "no", "such", "dir.dot")}
	require.Error(t, Run(quietContext(), opts, &bytes.Buffer{}))
}

func TestRun_TrainDefault(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Run(quietContext(), &Options{Command: "train"}, out))

	require.Contains(t, out.String(), "steps     100")
	require.Contains(t, out.String(), "accuracy  1.00")
	require.Equal(t, 4, strings.Count(out.String(), "prediction"))
}

func TestRun_TrainConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.hcl")
	src := `
steps     = var.steps
log_every = 0

sample {
  x = [1, 1, 1]
  y = 1
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	out := &bytes.Buffer{}
	opts := &Options{Command: "train", ConfigPath: path, Vars: []string{"steps=3"}}
	require.NoError(t, Run(quietContext(), opts, out))

	require.Contains(t, out.String(), "steps     3")
	require.Equal(t, 1, strings.Count(out.String(), "prediction"))
}

func TestRun_TrainSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.hcl")
	require.NoError(t, os.WriteFile(path, []byte("seed = 10\nsteps = 5\nlog_every = 0\n"), 0o600))

	out := &bytes.Buffer{}
	opts := &Options{Command: "train", ConfigPath: path, Seeds: 3, Workers: 2}
	require.NoError(t, Run(quietContext(), opts, out))

	for _, seed := range []string{"seed 10 ", "seed 11 ", "seed 12 "} {
		require.Contains(t, out.String(), seed)
	}
	require.Contains(t, out.String(), "best      seed 1")
	require.NotContains(t, out.String(), "prediction")
}

func TestRun_TrainCheckpoint(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "train.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("steps = 4\nlog_every = 0\n"), 0o600))
	ckpt := filepath.Join(dir, "model.safetensors")

	first := &bytes.Buffer{}
	require.NoError(t, Run(quietContext(), &Options{Command: "train", ConfigPath: cfgPath, SavePath: ckpt}, first))
	require.FileExists(t, ckpt)

	resumed := &bytes.Buffer{}
	require.NoError(t, Run(quietContext(), &Options{Command: "train", ConfigPath: cfgPath, LoadPath: ckpt}, resumed))
	require.Contains(t, resumed.String(), "steps     4")
	require.NotEqual(t, first.String(), resumed.String())

	err := Run(quietContext(), &Options{Command: "train", ConfigPath: cfgPath, LoadPath: filepath.Join(dir, "missing")}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_TrainErrors(t *testing.T) {
	var exitErr *ExitError

	err := Run(quietContext(), &Options{Command: "train", Vars: []string{"lr=1"}}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, err.Error(), "-var requires -config")

	err = Run(quietContext(), &Options{Command: "train", Vars: []string{"oops"}}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)

	err = Run(quietContext(), &Options{Command: "train", ConfigPath: filepath.Join(t.TempDir(), "missing.hcl")}, &bytes.Buffer{})
	require.ErrorContains(t, err, "read config")

	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("steps = -1\n"), 0o600))
	err = Run(quietContext(), &Options{Command: "train", ConfigPath: path}, &bytes.Buffer{})
	require.ErrorContains(t, err, "steps must be positive")
}

func TestRun_UnknownCommand(t *testing.T) {
	var exitErr *ExitError
	require.ErrorAs(t, Run(quietContext(), &Options{Command: "fly"}, &bytes.Buffer{}), &exitErr)
}
