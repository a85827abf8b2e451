package train

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/born-ml/micrograd/internal/ctxlog"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietContext() context.Context {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 0

	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_Model(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 41, nn.NumParameters(tr.Model()))
	assert.Equal(t, 0.2, tr.Optimizer().GetLR())
}

func TestTrainer_Deterministic(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)
	b, err := New(DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ra, rb := a.Step(), b.Step()
		require.Equal(t, ra.Loss, rb.Loss, "step %d", i)
	}
	assert.Equal(t, nn.StateDict(a.Model()), nn.StateDict(b.Model()))
}

func TestTrainer_Step(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	before := nn.StateDict(tr.Model())

	r := tr.Step()

	assert.Equal(t, 0, r.Step)
	assert.Len(t, r.Predictions, 4)
	assert.Positive(t, r.Loss)
	assert.Positive(t, r.GradNorm)
	assert.Equal(t, 0.2, r.LR)
	assert.Positive(t, r.Nodes)
	assert.NotEqual(t, before, nn.StateDict(tr.Model()))
	for _, p := range tr.Model().Parameters() {
		assert.False(t, p.Bound(), "%s still bound", p.Name())
	}

	assert.Equal(t, 1, tr.Step().Step)
}

func TestTrainer_Evaluate(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	before := nn.StateDict(tr.Model())

	loss, preds, acc := tr.Evaluate()
	r := tr.Step()

	assert.Equal(t, r.Loss, loss)
	assert.Equal(t, r.Predictions, preds)
	assert.Equal(t, r.Accuracy, acc)

	// Evaluate leaves gradients and parameters alone.
	tr2, err := New(DefaultConfig())
	require.NoError(t, err)
	tr2.Evaluate()
	assert.Equal(t, before, nn.StateDict(tr2.Model()))
	for _, p := range tr2.Model().Parameters() {
		assert.Equal(t, 0.0, p.Grad())
	}
}

func TestTrainer_Run(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)

	res, err := tr.Run(quietContext())
	require.NoError(t, err)

	assert.Equal(t, 100, res.Steps)
	require.Len(t, res.Losses, 100)
	assert.Less(t, res.FinalLoss, res.Losses[0])
	assert.Less(t, res.FinalLoss, 0.05)
	assert.Equal(t, 1.0, res.Accuracy)
	assert.Len(t, res.Parameters, 41)

	for i, y := range []float64{1, -1, -1, 1} {
		assert.Equal(t, y > 0, res.Predictions[i] > 0, "sample %d: %v", i, res.Predictions[i])
	}
}

func TestTrainer_RunAdamHinge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimizer = "adam"
	cfg.Loss = "hinge"
	cfg.LearningRate = 0.05
	cfg.LogEvery = 0

	tr, err := New(cfg)
	require.NoError(t, err)
	res, err := tr.Run(quietContext())
	require.NoError(t, err)

	assert.Less(t, res.FinalLoss, res.Losses[0])
}

func TestTrainer_RunMomentumDecayClip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Momentum = 0.9
	cfg.LearningRate = 0.1
	cfg.FinalLearningRate = 0.01
	cfg.ClipGradNorm = 1
	cfg.Steps = 20

	tr, err := New(cfg)
	require.NoError(t, err)

	first := tr.Step()
	assert.InDelta(t, 0.1, first.LR, 1e-12)
	var last StepResult
	for i := 1; i < cfg.Steps; i++ {
		last = tr.Step()
	}
	assert.InDelta(t, 0.1+(0.01-0.1)*19.0/20.0, last.LR, 1e-12)
	assert.LessOrEqual(t, gradNormSquared(tr), 1.0+1e-9)
}

func gradNormSquared(tr *Trainer) float64 {
	var sum float64
	for _, p := range tr.Model().Parameters() {
		sum += p.Grad() * p.Grad()
	}
	return sum
}

func TestTrainer_RunCancelled(t *testing.T) {
	tr, err := New(DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	res, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Steps)
	assert.Empty(t, res.Losses)
	assert.Len(t, res.Predictions, 4)
}

func TestTrainer_RunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	cfg := DefaultConfig()
	cfg.Steps = 5
	cfg.LogEvery = 2
	tr, err := New(cfg)
	require.NoError(t, err)

	_, err = tr.Run(ctx)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Training started.")
	assert.Contains(t, out, "Training finished.")
	// Steps 0, 2, 4 are logged.
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`msg="Training step."`)))
}
