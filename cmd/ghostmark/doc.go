// Package ghostmark provides the command-line interface for the ghostmark tool.
// It configures subcommands (scan, check, clean, review, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/ghostmark/cmd/ghostmark"
//	func main() { ghostmark.Execute() }
package ghostmark
