// Package cli is responsible for parsing command-line arguments, validating
// user input, and running the micrograd commands. It translates CLI flags
// into options for the engine, the graph exporter and the trainer.
package cli
