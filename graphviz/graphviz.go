// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graphviz renders computation graphs in the DOT language.
package graphviz

import (
	"context"

	"github.com/born-ml/micrograd/autodiff"
	"github.com/born-ml/micrograd/internal/graphviz"
)

// ErrRender is returned when the dot tool fails.
var ErrRender = graphviz.ErrRender

// Option customises Render.
type Option = graphviz.Option

// RankDir sets the layout direction. The default is "LR".
func RankDir(dir string) Option {
	return graphviz.RankDir(dir)
}

// Precision sets the decimals printed for data and grad. The default is 4.
func Precision(digits int) Option {
	return graphviz.Precision(digits)
}

// Render returns the DOT source of the graph reachable from root.
func Render(root autodiff.Value, opts ...Option) string {
	return graphviz.Render(root, opts...)
}

// WriteFile writes the DOT source of the graph reachable from root to path.
func WriteFile(path string, root autodiff.Value, opts ...Option) error {
	return graphviz.WriteFile(path, root, opts...)
}

// RenderPNG runs the Graphviz dot tool to turn dotPath into a PNG image.
func RenderPNG(ctx context.Context, dotPath, pngPath string) error {
	return graphviz.RenderPNG(ctx, dotPath, pngPath)
}
