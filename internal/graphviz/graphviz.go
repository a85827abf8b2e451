// Package graphviz exports computation graphs in the DOT language.
//
// Every value becomes a record vertex showing its data and gradient. Every
// value produced by an operation gets an extra vertex labelled with the
// operation, so an expression reads left to right as
// operands → operation → result.
package graphviz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/emicklei/dot"
)

// ErrRender is returned when the dot tool fails to produce an image.
var ErrRender = errors.New("graphviz: render failed")

// dotCommand is the Graphviz executable used by RenderPNG.
var dotCommand = "dot"

type config struct {
	rankDir   string
	precision int
}

// Option customises Render.
type Option func(*config)

// RankDir sets the layout direction ("LR", "TB", ...). The default is "LR".
func RankDir(dir string) Option {
	return func(c *config) {
		c.rankDir = dir
	}
}

// Precision sets the number of decimals printed for data and grad.
// The default is 4.
func Precision(digits int) Option {
	return func(c *config) {
		if digits >= 0 {
			c.precision = digits
		}
	}
}

func vertexID(v autodiff.Value) string {
	return "n" + strconv.FormatUint(uint64(v.ID()), 10)
}

// Render returns the DOT source of the graph reachable from root.
// It only reads the graph.
func Render(root autodiff.Value, opts ...Option) string {
	cfg := config{rankDir: "LR", precision: 4}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", cfg.rankDir)

	nodes, edges := autodiff.Trace(root)
	for _, n := range nodes {
		label := fmt.Sprintf("{data %.*f | grad %.*f}", cfg.precision, n.Data(), cfg.precision, n.Grad())
		vertex := g.Node(vertexID(n)).Attr("shape", "record").Label(label)
		if n.IsLeaf() {
			continue
		}
		op := g.Node(vertexID(n) + "op").Label(n.Op().String())
		g.Edge(op, vertex)
	}
	// x*x records the operand twice; draw the edge once.
	drawn := make(map[autodiff.Edge]bool, len(edges))
	for _, e := range edges {
		if drawn[e] {
			continue
		}
		drawn[e] = true
		g.Edge(g.Node(vertexID(e.From)), g.Node(vertexID(e.To)+"op"))
	}
	return g.String()
}

// WriteFile writes the DOT source of the graph reachable from root to path.
func WriteFile(path string, root autodiff.Value, opts ...Option) error {
	if err := os.WriteFile(path, []byte(Render(root, opts...)), 0o644); err != nil {
		return fmt.Errorf("graphviz: write %s: %w", path, err)
	}
	return nil
}

// RenderPNG runs the Graphviz dot tool to turn dotPath into a PNG image.
// Failures wrap ErrRender together with the tool's output.
func RenderPNG(ctx context.Context, dotPath, pngPath string) error {
	cmd := exec.CommandContext(ctx, dotCommand, "-Tpng", dotPath, "-o", pngPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := bytes.TrimSpace(out)
		if len(msg) == 0 {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		return fmt.Errorf("%w: %v: %s", ErrRender, err, msg)
	}
	return nil
}
