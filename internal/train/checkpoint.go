package train

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/serialization"
)

// ErrCheckpoint is wrapped by errors about checkpoints that do not fit the
// trainer.
var ErrCheckpoint = errors.New("train: incompatible checkpoint")

const (
	checkpointFormat = "micrograd/v1"
	modelPrefix      = "model."
	optimPrefix      = "optim."
)

// stateful is implemented by optimizers that carry state between steps.
type stateful interface {
	StateDict() map[string]float64
	LoadStateDict(state map[string]float64) error
}

// SaveCheckpoint writes the model parameters, the optimizer state and the
// step counter to path in SafeTensors format.
func (t *Trainer) SaveCheckpoint(path string) error {
	state := make(map[string]float64)
	for name, v := range nn.StateDict(t.model) {
		state[modelPrefix+name] = v
	}
	if s, ok := t.opt.(stateful); ok {
		for key, v := range s.StateDict() {
			state[optimPrefix+key] = v
		}
	}

	meta := map[string]string{
		"format":    checkpointFormat,
		"optimizer": t.cfg.Optimizer,
		"step":      strconv.Itoa(t.step),
		"lr":        strconv.FormatFloat(t.opt.GetLR(), 'g', -1, 64),
	}
	if err := serialization.WriteFile(path, state, meta); err != nil {
		return fmt.Errorf("train: save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores a checkpoint written by SaveCheckpoint. The model
// architecture and optimizer must match the trainer's configuration.
func (t *Trainer) LoadCheckpoint(path string) error {
	state, meta, err := serialization.ReadFile(path)
	if err != nil {
		return fmt.Errorf("train: load checkpoint: %w", err)
	}
	if meta["format"] != checkpointFormat {
		return fmt.Errorf("%w: format %q", ErrCheckpoint, meta["format"])
	}
	if meta["optimizer"] != t.cfg.Optimizer {
		return fmt.Errorf("%w: saved with optimizer %q, configured %q", ErrCheckpoint, meta["optimizer"], t.cfg.Optimizer)
	}
	step, err := strconv.Atoi(meta["step"])
	if err != nil || step < 0 {
		return fmt.Errorf("%w: step %q", ErrCheckpoint, meta["step"])
	}

	model := make(map[string]float64)
	optState := make(map[string]float64)
	for key, v := range state {
		switch {
		case strings.HasPrefix(key, modelPrefix):
			model[strings.TrimPrefix(key, modelPrefix)] = v
		case strings.HasPrefix(key, optimPrefix):
			optState[strings.TrimPrefix(key, optimPrefix)] = v
		default:
			return fmt.Errorf("%w: unexpected entry %q", ErrCheckpoint, key)
		}
	}

	if err := nn.LoadStateDict(t.model, model); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpoint, err)
	}
	if s, ok := t.opt.(stateful); ok {
		if err := s.LoadStateDict(optState); err != nil {
			return fmt.Errorf("%w: %v", ErrCheckpoint, err)
		}
	}
	t.step = step
	return nil
}
