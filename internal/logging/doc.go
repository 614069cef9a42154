// Package logging provides opt-in file logging with rotation for strbench.
// With --debug, JSON records are written to ~/.strbench/logs/strbench.log.
// Otherwise only warnings and errors reach stderr as text.
package logging
