// Package cmd implements the cobra command tree for the intakectl CLI,
// including subcommands for listing and inspecting submissions, health
// checks, and version output.
package cmd
