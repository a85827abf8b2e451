package train

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/micrograd/internal/nn"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("train: invalid config")

// Config describes a training run.
type Config struct {
	Seed              int64
	Steps             int
	LearningRate      float64
	FinalLearningRate float64 // 0 keeps the rate constant
	Momentum          float64
	Optimizer         string // "sgd" or "adam"
	Loss              string // "mse" or "hinge"
	ClipGradNorm      float64
	LogEvery          int // 0 disables progress logs
	Model             ModelConfig
	Samples           []Sample
}

// ModelConfig describes the MLP to train.
type ModelConfig struct {
	Inputs       int
	Layers       []int
	Activation   string
	LinearOutput bool
}

// Sample is one labelled input.
type Sample struct {
	X []float64 `hcl:"x"`
	Y float64   `hcl:"y"`
}

// DefaultConfig returns the classic four-sample binary classification
// problem fitted by a 3-4-4-1 tanh network.
func DefaultConfig() Config {
	return Config{
		Seed:         1337,
		Steps:        100,
		LearningRate: 0.2,
		Optimizer:    "sgd",
		Loss:         "mse",
		LogEvery:     10,
		Model: ModelConfig{
			Inputs:     3,
			Layers:     []int{4, 4, 1},
			Activation: "tanh",
		},
		Samples: []Sample{
			{X: []float64{2, 3, -1}, Y: 1},
			{X: []float64{3, -1, 0.5}, Y: -1},
			{X: []float64{0.5, 1, 1}, Y: -1},
			{X: []float64{1, 1, -1}, Y: 1},
		},
	}
}

// hclConfig mirrors Config for decoding. Pointer fields tell an absent
// attribute from a zero value.
type hclConfig struct {
	Seed              *int64    `hcl:"seed,optional"`
	Steps             *int      `hcl:"steps,optional"`
	LearningRate      *float64  `hcl:"learning_rate,optional"`
	FinalLearningRate *float64  `hcl:"final_learning_rate,optional"`
	Momentum          *float64  `hcl:"momentum,optional"`
	Optimizer         *string   `hcl:"optimizer,optional"`
	Loss              *string   `hcl:"loss,optional"`
	ClipGradNorm      *float64  `hcl:"clip_grad_norm,optional"`
	LogEvery          *int      `hcl:"log_every,optional"`
	Model             *hclModel `hcl:"model,block"`
	Samples           []Sample  `hcl:"sample,block"`
}

type hclModel struct {
	Inputs       *int    `hcl:"inputs,optional"`
	Layers       []int   `hcl:"layers,optional"`
	Activation   *string `hcl:"activation,optional"`
	LinearOutput *bool   `hcl:"linear_output,optional"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Parse decodes an HCL training file on top of DefaultConfig. Attributes
// may refer to vars as var.<name>. Sample blocks, when present, replace
// the default samples.
//
//	steps         = 200
//	learning_rate = var.lr
//
//	model {
//	  inputs = 2
//	  layers = [16, 16, 1]
//	  activation    = "relu"
//	  linear_output = true
//	}
//
//	sample {
//	  x = [0.5, -1]
//	  y = 1
//	}
func Parse(src []byte, filename string, vars map[string]cty.Value) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(file.Body, evalContext(vars), &raw)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := DefaultConfig()
	set(&cfg.Seed, raw.Seed)
	set(&cfg.Steps, raw.Steps)
	set(&cfg.LearningRate, raw.LearningRate)
	set(&cfg.FinalLearningRate, raw.FinalLearningRate)
	set(&cfg.Momentum, raw.Momentum)
	set(&cfg.Optimizer, raw.Optimizer)
	set(&cfg.Loss, raw.Loss)
	set(&cfg.ClipGradNorm, raw.ClipGradNorm)
	set(&cfg.LogEvery, raw.LogEvery)
	if m := raw.Model; m != nil {
		set(&cfg.Model.Inputs, m.Inputs)
		set(&cfg.Model.Activation, m.Activation)
		set(&cfg.Model.LinearOutput, m.LinearOutput)
		if m.Layers != nil {
			cfg.Model.Layers = m.Layers
		}
	}
	if len(raw.Samples) > 0 {
		cfg.Samples = raw.Samples
	}
	return cfg, nil
}

// LoadFile reads and decodes the HCL file at path. See Parse.
func LoadFile(path string, vars map[string]cty.Value) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("train: read config: %w", err)
	}
	return Parse(src, path, vars)
}

func evalContext(vars map[string]cty.Value) *hcl.EvalContext {
	v := cty.EmptyObjectVal
	if len(vars) > 0 {
		v = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": v},
	}
}

// ParseVars turns name=value assignments into HCL variables. Values that
// parse as numbers or booleans keep that type; anything else is a string.
func ParseVars(assignments []string) (map[string]cty.Value, error) {
	vars := make(map[string]cty.Value, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("train: variable %q is not name=value", a)
		}
		if !hclIdentifier(name) {
			return nil, fmt.Errorf("train: invalid variable name %q", name)
		}
		f, err := strconv.ParseFloat(value, 64)
		switch {
		case err == nil && !math.IsInf(f, 0) && !math.IsNaN(f):
			vars[name] = cty.NumberFloatVal(f)
		case value == "true" || value == "false":
			vars[name] = cty.BoolVal(value == "true")
		default:
			vars[name] = cty.StringVal(value)
		}
	}
	return vars, nil
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Steps <= 0 {
		fail("steps must be positive, got %d", c.Steps)
	}
	if c.LearningRate <= 0 {
		fail("learning_rate must be positive, got %v", c.LearningRate)
	}
	if c.FinalLearningRate < 0 {
		fail("final_learning_rate must not be negative, got %v", c.FinalLearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		fail("momentum must be in [0, 1), got %v", c.Momentum)
	}
	if c.ClipGradNorm < 0 {
		fail("clip_grad_norm must not be negative, got %v", c.ClipGradNorm)
	}
	if c.LogEvery < 0 {
		fail("log_every must not be negative, got %d", c.LogEvery)
	}
	switch c.Optimizer {
	case "sgd", "adam":
	default:
		fail("unknown optimizer %q", c.Optimizer)
	}
	switch c.Loss {
	case "mse", "hinge":
	default:
		fail("unknown loss %q", c.Loss)
	}

	m := c.Model
	if m.Inputs <= 0 {
		fail("model.inputs must be positive, got %d", m.Inputs)
	}
	if len(m.Layers) == 0 {
		fail("model.layers must not be empty")
	}
	for i, n := range m.Layers {
		if n <= 0 {
			fail("model.layers[%d] must be positive, got %d", i, n)
		}
	}
	if len(m.Layers) > 0 && m.Layers[len(m.Layers)-1] != 1 {
		fail("the last layer must have a single output, got %d", m.Layers[len(m.Layers)-1])
	}
	if _, err := nn.ParseActivation(m.Activation); err != nil {
		fail("model.activation: %v", err)
	}

	if len(c.Samples) == 0 {
		fail("at least one sample is required")
	}
	for i, s := range c.Samples {
		if len(s.X) != m.Inputs {
			fail("sample %d has %d inputs, model expects %d", i, len(s.X), m.Inputs)
		}
	}

	return errors.Join(errs...)
}
