package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/born-ml/micrograd/internal/parallel"
)

// Version is the micrograd release.
const Version = "v0.1.0-dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options holds the parsed command line.
type Options struct {
	Command   string
	LogFormat string
	LogLevel  string

	// neuron
	DotPath string
	PNG     bool

	// train
	ConfigPath string
	Vars       []string
	Seeds      int
	Workers    int
	SavePath   string
	LoadPath   string
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

const usage = `
micrograd - A scalar reverse-mode automatic differentiation engine.

Usage:
  micrograd [options] <command> [command options]

Commands:
  version   Print the version.
  demo      Differentiate the reference expression and print its gradients.
  neuron    Differentiate a single tanh neuron and export its graph.
  train     Train a small MLP on a labelled data set.

Options:
`

// Parse processes command-line arguments. It returns the populated Options,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("micrograd", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	opts := &Options{
		Command:   flagSet.Arg(0),
		LogFormat: strings.ToLower(*logFormatFlag),
		LogLevel:  strings.ToLower(*logLevelFlag),
	}

	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	if _, err := parseLevel(opts.LogLevel); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cmdSet := flag.NewFlagSet("micrograd "+opts.Command, flag.ContinueOnError)
	cmdSet.SetOutput(output)
	switch opts.Command {
	case "version", "demo":
	case "neuron":
		cmdSet.StringVar(&opts.DotPath, "dot", "graph.dot", "Path of the DOT file to write.")
		cmdSet.BoolVar(&opts.PNG, "png", false, "Also render the graph to PNG with the Graphviz 'dot' tool.")
	case "train":
		cmdSet.StringVar(&opts.ConfigPath, "config", "", "Path to an HCL training file. Defaults to the built-in example.")
		cmdSet.Var((*stringList)(&opts.Vars), "var", "Set a config variable as name=value (repeatable).")
		cmdSet.StringVar(&opts.SavePath, "save", "", "Write a checkpoint to this path after training.")
		cmdSet.StringVar(&opts.LoadPath, "load", "", "Resume from a checkpoint written by -save.")
		cmdSet.IntVar(&opts.Seeds, "seeds", 1, "Number of consecutive seeds to train, starting at the configured seed.")
		cmdSet.IntVar(&opts.Workers, "workers", parallel.DefaultConfig().Workers, "Maximum number of seeds trained at once.")
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", opts.Command)}
	}

	if err := cmdSet.Parse(flagSet.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cmdSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(cmdSet.Args(), " "))}
	}
	if opts.Command == "train" && (opts.Seeds < 1 || opts.Workers < 1) {
		return nil, false, &ExitError{Code: 2, Message: "-seeds and -workers must be positive"}
	}
	if opts.Seeds > 1 && (opts.SavePath != "" || opts.LoadPath != "") {
		return nil, false, &ExitError{Code: 2, Message: "-save and -load cannot be combined with -seeds"}
	}

	slog.Debug("CLI parser finished successfully.", "command", opts.Command)
	return opts, false, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
}

// NewLogger builds the logger selected by opts, writing to w.
func NewLogger(opts *Options, w io.Writer) *slog.Logger {
	level, err := parseLevel(opts.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
