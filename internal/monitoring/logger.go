// Package monitoring provides the package-level diagnostic logger shared by
// the intersection and cutting engines.
package monitoring

import "log"

// Logf is the module-wide diagnostic logger. It defaults to log.Printf but
// may be replaced via SetLogger. Tests typically mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Mute silences the logger and returns a function restoring the previous one.
// Intended for tests: defer monitoring.Mute()().
func Mute() func() {
	prev := Logf
	Logf = func(string, ...interface{}) {}
	return func() { Logf = prev }
}
