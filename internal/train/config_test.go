package train

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Samples, 4)
	assert.Equal(t, []int{4, 4, 1}, cfg.Model.Layers)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil, "empty.hcl", nil)
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("empty file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestParse_Full(t *testing.T) {
	src := `
seed           = 7
steps          = 250
learning_rate  = 0.05
momentum       = 0.9
optimizer      = "adam"
loss           = "hinge"
clip_grad_norm = 5
log_every      = 0

model {
  inputs        = 2
  layers        = [16, 16, 1]
  activation    = "relu"
  linear_output = true
}

sample {
  x = [0.5, -1]
  y = 1
}

sample {
  x = [-0.5, 1]
  y = -1
}
`
	cfg, err := Parse([]byte(src), "moons.hcl", nil)
	require.NoError(t, err)

	want := Config{
		Seed:         7,
		Steps:        250,
		LearningRate: 0.05,
		Momentum:     0.9,
		Optimizer:    "adam",
		Loss:         "hinge",
		ClipGradNorm: 5,
		LogEvery:     0,
		Model: ModelConfig{
			Inputs:       2,
			Layers:       []int{16, 16, 1},
			Activation:   "relu",
			LinearOutput: true,
		},
		Samples: []Sample{
			{X: []float64{0.5, -1}, Y: 1},
			{X: []float64{-0.5, 1}, Y: -1},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.Validate())
}

func TestParse_PartialModel(t *testing.T) {
	cfg, err := Parse([]byte("model {\n  activation = \"relu\"\n}\n"), "m.hcl", nil)
	require.NoError(t, err)

	assert.Equal(t, "relu", cfg.Model.Activation)
	assert.Equal(t, 3, cfg.Model.Inputs)
	assert.Equal(t, []int{4, 4, 1}, cfg.Model.Layers)
	assert.Len(t, cfg.Samples, 4)
}

func TestParse_Variables(t *testing.T) {
	vars, err := ParseVars([]string{"lr=0.01", "n=300", "opt=adam", "decay=true"})
	require.NoError(t, err)
	assert.True(t, vars["decay"].True())
	assert.Equal(t, cty.StringVal("adam"), vars["opt"])

	src := `
learning_rate = var.lr
steps         = var.n
optimizer     = var.opt
log_every     = var.n / 10
`
	cfg, err := Parse([]byte(src), "vars.hcl", vars)
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.LearningRate)
	assert.Equal(t, 300, cfg.Steps)
	assert.Equal(t, "adam", cfg.Optimizer)
	assert.Equal(t, 30, cfg.LogEvery)
}

func TestParse_UndefinedVariable(t *testing.T) {
	_, err := Parse([]byte("steps = var.missing\n"), "bad.hcl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL file bad.hcl")
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":        "steps = \n",
		"unknown attr":  "epochs = 3\n",
		"wrong type":    "steps = \"many\"\n",
		"sample no y":   "sample {\n  x = [1]\n}\n",
		"unknown block": "dataset {}\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), "bad.hcl", nil)
			assert.Error(t, err)
		})
	}
}

func TestParseVars_Errors(t *testing.T) {
	for _, a := range []string{"novalue", "=1", "bad name=1", "9lives=1"} {
		_, err := ParseVars([]string{a})
		assert.Error(t, err, a)
	}

	vars, err := ParseVars([]string{"s=inf", "t = x"})
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("inf"), vars["s"])
	assert.Equal(t, cty.StringVal(" x"), vars["t"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.hcl")
	require.NoError(t, os.WriteFile(path, []byte("steps = 12\n"), 0o600))

	cfg, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Steps)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.hcl"), nil)
	assert.ErrorContains(t, err, "train: read config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"steps", func(c *Config) { c.Steps = 0 }, "steps must be positive"},
		{"lr", func(c *Config) { c.LearningRate = -1 }, "learning_rate must be positive"},
		{"final lr", func(c *Config) { c.FinalLearningRate = -1 }, "final_learning_rate"},
		{"momentum", func(c *Config) { c.Momentum = 1 }, "momentum must be in [0, 1)"},
		{"clip", func(c *Config) { c.ClipGradNorm = -1 }, "clip_grad_norm"},
		{"log every", func(c *Config) { c.LogEvery = -1 }, "log_every"},
		{"optimizer", func(c *Config) { c.Optimizer = "rmsprop" }, `unknown optimizer "rmsprop"`},
		{"loss", func(c *Config) { c.Loss = "l1" }, `unknown loss "l1"`},
		{"inputs", func(c *Config) { c.Model.Inputs = 0 }, "model.inputs must be positive"},
		{"no layers", func(c *Config) { c.Model.Layers = nil }, "model.layers must not be empty"},
		{"zero layer", func(c *Config) { c.Model.Layers = []int{0, 1} }, "model.layers[0] must be positive"},
		{"outputs", func(c *Config) { c.Model.Layers = []int{4, 2} }, "single output"},
		{"activation", func(c *Config) { c.Model.Activation = "gelu" }, "model.activation"},
		{"no samples", func(c *Config) { c.Samples = nil }, "at least one sample"},
		{"sample size", func(c *Config) { c.Samples[1].X = []float64{1} }, "sample 1 has 1 inputs, model expects 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
