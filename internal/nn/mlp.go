package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// MLP is a multi-layer perceptron: a Sequential of fully connected layers.
type MLP struct {
	*Sequential
	layers []*Layer
}

// MLPOption configures NewMLP.
type MLPOption func(*mlpConfig)

type mlpConfig struct {
	linearOutput bool
}

// WithLinearOutput makes the last layer linear, as needed for regression
// and hinge-loss classification.
func WithLinearOutput() MLPOption {
	return func(c *mlpConfig) {
		c.linearOutput = true
	}
}

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
// Every layer uses act unless WithLinearOutput is given.
//
// Layer i is named "layer<i>", so parameters read like
// "layer0.neuron2.w1".
func NewMLP(rng *rand.Rand, nin int, nouts []int, act Activation, opts ...MLPOption) *MLP {
	var cfg mlpConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sizes := append([]int{nin}, nouts...)
	layers := make([]*Layer, len(nouts))
	modules := make([]Module, len(nouts))
	for i := range nouts {
		a := act
		if cfg.linearOutput && i == len(nouts)-1 {
			a = Linear
		}
		layers[i] = NewLayer(rng, fmt.Sprintf("layer%d", i), sizes[i], sizes[i+1], a)
		modules[i] = layers[i]
	}
	return &MLP{
		Sequential: NewSequential(modules...),
		layers:     layers,
	}
}

// Layers returns the layers of the network.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

func (m *MLP) String() string {
	parts := make([]string, len(m.layers))
	for i, l := range m.layers {
		parts[i] = l.String()
	}
	return "MLP of [" + strings.Join(parts, ", ") + "]"
}
