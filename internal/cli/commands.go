package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/ctxlog"
	"github.com/born-ml/micrograd/internal/graphviz"
	"github.com/born-ml/micrograd/internal/parallel"
	"github.com/born-ml/micrograd/internal/train"
)

// Run executes the command selected by opts, writing results to out.
func Run(ctx context.Context, opts *Options, out io.Writer) error {
	switch opts.Command {
	case "version":
		fmt.Fprintf(out, "micrograd %s\n", Version)
		return nil
	case "demo":
		return runDemo(out)
	case "neuron":
		return runNeuron(ctx, opts, out)
	case "train":
		return runTrain(ctx, opts, out)
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", opts.Command)}
	}
}

func runDemo(out io.Writer) error {
	lt, f := autodiff.NewSession()
	defer lt.Release()

	a := f.Leaf(-4.0)
	b := f.Leaf(2.0)
	c := a.Add(b)
	d := a.Mul(b).Add(b.Pow(3))
	c = c.Add(c.AddScalar(1))
	c = c.Add(c.AddScalar(1).Add(a.Neg()))
	d = d.Add(d.MulScalar(2).Add(b.Add(a).ReLU()))
	d = d.Add(d.MulScalar(3).Add(b.Sub(a).ReLU()))
	e := c.Sub(d)
	g := e.Pow(2)
	h := g.DivScalar(2.0).Add(g.RDiv(10.0))
	h.Backward()

	fmt.Fprintf(out, "g     = %.4f\n", h.Data())
	fmt.Fprintf(out, "dg/da = %.4f\n", a.Grad())
	fmt.Fprintf(out, "dg/db = %.4f\n", b.Grad())
	return nil
}

func runNeuron(ctx context.Context, opts *Options, out io.Writer) error {
	logger := ctxlog.FromContext(ctx)
	lt, f := autodiff.NewSession()
	defer lt.Release()

	x1, x2 := f.Leaf(2.0), f.Leaf(0.0)
	w1, w2 := f.Leaf(-3.0), f.Leaf(1.0)
	b := f.Leaf(6.8813735870195432)
	n := x1.Mul(w1).Add(x2.Mul(w2)).Add(b)
	o := n.Tanh()
	o.Backward()

	fmt.Fprintf(out, "o  = %.4f\n", o.Data())
	for _, p := range []struct {
		name string
		v    autodiff.Value
	}{{"x1", x1}, {"w1", w1}, {"x2", x2}, {"w2", w2}, {"b", b}} {
		fmt.Fprintf(out, "d%-2s = %.4f\n", p.name, p.v.Grad())
	}

	if err := graphviz.WriteFile(opts.DotPath, o); err != nil {
		return err
	}
	logger.Info("Graph written.", "path", opts.DotPath, "nodes", f.Len())

	if opts.PNG {
		pngPath := strings.TrimSuffix(opts.DotPath, filepath.Ext(opts.DotPath)) + ".png"
		if err := graphviz.RenderPNG(ctx, opts.DotPath, pngPath); err != nil {
			return err
		}
		logger.Info("Graph rendered.", "path", pngPath)
	}
	return nil
}

func runTrain(ctx context.Context, opts *Options, out io.Writer) error {
	vars, err := train.ParseVars(opts.Vars)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := train.DefaultConfig()
	if opts.ConfigPath != "" {
		if cfg, err = train.LoadFile(opts.ConfigPath, vars); err != nil {
			return err
		}
	} else if len(vars) > 0 {
		return &ExitError{Code: 2, Message: "-var requires -config"}
	}

	if opts.Seeds > 1 {
		return runSweep(ctx, opts, cfg, out)
	}

	logger := ctxlog.FromContext(ctx)
	trainer, err := train.New(cfg)
	if err != nil {
		return err
	}
	if opts.LoadPath != "" {
		if err := trainer.LoadCheckpoint(opts.LoadPath); err != nil {
			return err
		}
		logger.Info("Checkpoint loaded.", "path", opts.LoadPath)
	}
	res, err := trainer.Run(ctx)
	if err != nil {
		return err
	}
	if opts.SavePath != "" {
		if err := trainer.SaveCheckpoint(opts.SavePath); err != nil {
			return err
		}
		logger.Info("Checkpoint saved.", "path", opts.SavePath)
	}

	fmt.Fprintf(out, "steps     %d\n", res.Steps)
	fmt.Fprintf(out, "loss      %.6f\n", res.FinalLoss)
	fmt.Fprintf(out, "accuracy  %.2f\n", res.Accuracy)
	for i, s := range cfg.Samples {
		fmt.Fprintf(out, "sample %d  target % .2f  prediction % .4f\n", i, s.Y, res.Predictions[i])
	}
	return nil
}

func runSweep(ctx context.Context, opts *Options, cfg train.Config, out io.Writer) error {
	results, err := train.Sweep(ctx, cfg, train.Seeds(cfg.Seed, opts.Seeds), parallel.Config{Workers: opts.Workers})
	if err != nil {
		return err
	}

	best := 0
	for i, r := range results {
		fmt.Fprintf(out, "seed %-6d loss %.6f  accuracy %.2f\n", r.Seed, r.Result.FinalLoss, r.Result.Accuracy)
		if r.Result.FinalLoss < results[best].Result.FinalLoss {
			best = i
		}
	}
	fmt.Fprintf(out, "best      seed %d\n", results[best].Seed)
	return nil
}
