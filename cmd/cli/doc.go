// Package cli constructs the git-details command-line interface, wiring the
// Cobra command hierarchy, the configuration loader and structured logging.
package cli
