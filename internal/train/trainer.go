// Package train fits an MLP to a small labelled data set with full-batch
// gradient descent.
//
// Every step runs in its own graph session: the model's parameters are
// bound as fresh leaves, the loss over all samples is built and
// differentiated, gradients are collected into the parameters and the
// session is released before the optimizer updates them.
package train

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/ctxlog"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/optim"
)

type lossFunc func(predictions []autodiff.Value, targets []float64) autodiff.Value

// Trainer owns a model, its optimizer and the training samples.
type Trainer struct {
	cfg     Config
	model   *nn.MLP
	opt     optim.Scheduler
	loss    lossFunc
	targets []float64
	step    int
}

// StepResult reports one optimization step. Loss, Accuracy and
// Predictions are measured before the update.
type StepResult struct {
	Step        int
	Loss        float64
	Accuracy    float64
	GradNorm    float64
	LR          float64
	Predictions []float64
	Nodes       int // size of the step's graph
}

// Result summarises a run.
type Result struct {
	Steps       int       // completed steps
	Losses      []float64 // loss before each step
	FinalLoss   float64   // loss after the last step
	Predictions []float64 // predictions after the last step
	Accuracy    float64
	Parameters  map[string]float64
}

// New validates cfg and builds the model and optimizer.
func New(cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	act, err := nn.ParseActivation(cfg.Model.Activation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var opts []nn.MLPOption
	if cfg.Model.LinearOutput {
		opts = append(opts, nn.WithLinearOutput())
	}
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	model := nn.NewMLP(rng, cfg.Model.Inputs, cfg.Model.Layers, act, opts...)

	var opt optim.Scheduler
	switch cfg.Optimizer {
	case "adam":
		opt = optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: cfg.LearningRate})
	default:
		opt = optim.NewSGD(model.Parameters(), optim.SGDConfig{
			LR:       cfg.LearningRate,
			Momentum: cfg.Momentum,
		})
	}

	loss := nn.MSELoss
	if cfg.Loss == "hinge" {
		loss = nn.HingeLoss
	}

	targets := make([]float64, len(cfg.Samples))
	for i, s := range cfg.Samples {
		targets[i] = s.Y
	}

	return &Trainer{
		cfg:     cfg,
		model:   model,
		opt:     opt,
		loss:    loss,
		targets: targets,
	}, nil
}

// Model returns the model being trained.
func (t *Trainer) Model() *nn.MLP {
	return t.model
}

// Optimizer returns the optimizer updating the model.
func (t *Trainer) Optimizer() optim.Optimizer {
	return t.opt
}

// forward builds predictions and loss for all samples in f.
func (t *Trainer) forward(f *autodiff.Factory) ([]autodiff.Value, autodiff.Value) {
	nn.Bind(t.model, f)
	preds := make([]autodiff.Value, len(t.cfg.Samples))
	for i, s := range t.cfg.Samples {
		preds[i] = t.model.Forward(f.Leaves(s.X...))[0]
	}
	return preds, t.loss(preds, t.targets)
}

func data(values []autodiff.Value) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Data()
	}
	return out
}

// Step runs one forward, backward and update cycle.
func (t *Trainer) Step() StepResult {
	lt, f := autodiff.NewSession()
	preds, loss := t.forward(f)

	t.opt.ZeroGrad()
	loss.Backward()
	nn.Collect(t.model)

	res := StepResult{
		Step:        t.step,
		Loss:        loss.Data(),
		Accuracy:    nn.Accuracy(preds, t.targets),
		Predictions: data(preds),
		Nodes:       f.Len(),
	}
	lt.Release()

	params := t.model.Parameters()
	if t.cfg.ClipGradNorm > 0 {
		res.GradNorm = optim.ClipGradNorm(params, t.cfg.ClipGradNorm)
	} else {
		res.GradNorm = optim.GradNorm(params)
	}
	if t.cfg.FinalLearningRate > 0 {
		t.opt.SetLR(optim.LinearDecay(t.cfg.LearningRate, t.cfg.FinalLearningRate, t.step, t.cfg.Steps))
	}
	res.LR = t.opt.GetLR()

	t.opt.Step()
	t.step++
	return res
}

// Evaluate returns the loss, predictions and accuracy of the current
// parameters without changing them.
func (t *Trainer) Evaluate() (loss float64, predictions []float64, accuracy float64) {
	lt, f := autodiff.NewSession()
	defer lt.Release()

	preds, l := t.forward(f)
	loss, predictions, accuracy = l.Data(), data(preds), nn.Accuracy(preds, t.targets)
	// Unbinds. Gradients are unchanged since no backward ran.
	nn.Collect(t.model)
	return loss, predictions, accuracy
}

// Run trains for the configured number of steps. Cancelling ctx stops the
// run between steps; the partial result is returned with ctx's error.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Training started.",
		"steps", t.cfg.Steps,
		"optimizer", t.cfg.Optimizer,
		"loss", t.cfg.Loss,
		"parameters", nn.NumParameters(t.model),
		"samples", len(t.cfg.Samples),
	)

	res := Result{Losses: make([]float64, 0, t.cfg.Steps)}
	var runErr error
	for i := 0; i < t.cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("Training cancelled.", "step", i, "error", err)
			runErr = err
			break
		}

		r := t.Step()
		res.Losses = append(res.Losses, r.Loss)
		res.Steps++

		if t.cfg.LogEvery > 0 && (i%t.cfg.LogEvery == 0 || i == t.cfg.Steps-1) {
			logger.Info("Training step.",
				"step", r.Step,
				"loss", r.Loss,
				"accuracy", r.Accuracy,
				"grad_norm", r.GradNorm,
				"lr", r.LR,
			)
		}
		logger.Debug("Step finished.", "step", r.Step, "nodes", r.Nodes)
	}

	res.FinalLoss, res.Predictions, res.Accuracy = t.Evaluate()
	res.Parameters = nn.StateDict(t.model)
	logger.Info("Training finished.", "steps", res.Steps, "loss", res.FinalLoss, "accuracy", res.Accuracy)
	return res, runErr
}
