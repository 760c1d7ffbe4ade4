// Package monitoring holds the process-wide diagnostic logger. Capture and
// ingestion paths log through it so a bad feed line is reported without
// becoming fatal, and tests can mute or redirect output.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// and may be replaced with SetLogger.
var Logf func(format string, v ...any) = log.Printf

// Verbose gates Debugf. Off by default; the -verbose flag flips it.
var Verbose bool

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// Debugf logs only when Verbose is set. Use it for per-event diagnostics
// that would swamp normal output.
func Debugf(format string, v ...any) {
	if Verbose {
		Logf(format, v...)
	}
}
