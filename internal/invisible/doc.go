// Package invisible classifies, finds and rewrites invisible or visually
// deceptive Unicode code points in a text snapshot.
//
// The package is pure: no I/O, no globals that change after init, and every
// function is safe to call concurrently on distinct or shared immutable
// strings.
//
//	ms := invisible.Detect("A\u200bB")
//	out := invisible.Clean("A\u200bB", ms, invisible.CodePointMarker) // "AU+200B B"
package invisible
