// Package core provides a small, stable facade over ghostmark's detection
// core and scan engine for host integrations such as editor plugins, chat
// filters and other tools. It re-exports a narrow API surface so callers can
// depend on a stable import path without reaching into internal packages.
//
// Example:
//
//	opts := core.DefaultOptions()
//	matches := core.Inspect(core.Document{Name: "notes.md", Text: text}, opts)
//	cleaned := core.Clean(text, matches, core.CodePointMarker)
package core
