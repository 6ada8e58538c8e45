// Package command defines the stripemap-bench CLI.
//
// It uses urfave/cli/v2. Configuration is layered: defaults, then the
// YAML config file, then STRIPEMAP_* environment variables, then
// command-line flags.
package command
