// Package cmd implements the keyward command line. Each command parses its
// flags and input, then hands off to a function in internal/workflows.
package cmd
