package train

import (
	"path/filepath"
	"testing"

	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoint_ResumeMatchesUninterrupted(t *testing.T) {
	for _, opt := range []string{"sgd", "adam"} {
		t.Run(opt, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Optimizer = opt
			cfg.Momentum = 0.5
			if opt == "adam" {
				cfg.Momentum = 0
				cfg.LearningRate = 0.05
			}

			full, err := New(cfg)
			require.NoError(t, err)
			for i := 0; i < 6; i++ {
				full.Step()
			}

			first, err := New(cfg)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				first.Step()
			}
			path := filepath.Join(t.TempDir(), "ckpt.safetensors")
			require.NoError(t, first.SaveCheckpoint(path))

			cfg.Seed = 99 // different initial weights, overwritten by the checkpoint
			resumed, err := New(cfg)
			require.NoError(t, err)
			require.NoError(t, resumed.LoadCheckpoint(path))
			for i := 0; i < 3; i++ {
				resumed.Step()
			}

			assert.Equal(t, nn.StateDict(full.Model()), nn.StateDict(resumed.Model()))
			assert.Equal(t, full.step, resumed.step)
		})
	}
}

func TestCheckpoint_Contents(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	tr.Step()

	path := filepath.Join(t.TempDir(), "ckpt.safetensors")
	require.NoError(t, tr.SaveCheckpoint(path))

	state, meta, err := serialization.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, state, 41)
	assert.Contains(t, state, "model.layer0.neuron0.w0")
	assert.Equal(t, "micrograd/v1", meta["format"])
	assert.Equal(t, "sgd", meta["optimizer"])
	assert.Equal(t, "1", meta["step"])
	assert.Equal(t, "0.2", meta["lr"])
}

func TestCheckpoint_Incompatible(t *testing.T) {
	dir := t.TempDir()
	src, err := New(DefaultConfig())
	require.NoError(t, err)
	path := filepath.Join(dir, "ckpt.safetensors")
	require.NoError(t, src.SaveCheckpoint(path))

	adam := DefaultConfig()
	adam.Optimizer = "adam"
	dst, err := New(adam)
	require.NoError(t, err)
	assert.ErrorIs(t, dst.LoadCheckpoint(path), ErrCheckpoint)

	wide := DefaultConfig()
	wide.Model.Layers = []int{5, 1}
	dst, err = New(wide)
	require.NoError(t, err)
	assert.ErrorIs(t, dst.LoadCheckpoint(path), ErrCheckpoint)

	foreign := filepath.Join(dir, "foreign.safetensors")
	require.NoError(t, serialization.WriteFile(foreign, map[string]float64{"w": 1}, nil))
	assert.ErrorIs(t, src.LoadCheckpoint(foreign), ErrCheckpoint)

	stray := filepath.Join(dir, "stray.safetensors")
	require.NoError(t, serialization.WriteFile(stray, map[string]float64{"w": 1}, map[string]string{
		"format": "micrograd/v1", "optimizer": "sgd", "step": "0",
	}))
	assert.ErrorIs(t, src.LoadCheckpoint(stray), ErrCheckpoint)

	assert.Error(t, src.LoadCheckpoint(filepath.Join(dir, "missing")))
}
