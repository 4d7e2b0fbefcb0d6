// Package ports defines the boundary interfaces between the engine and its
// collaborators (presentation layer, logging backend).
package ports

// Logger defines structured logging as a message plus key/value pairs.
// Implementations can log to the terminal, a file, or nowhere at all.
type Logger interface {
	// Debug logs verbose diagnostic information.
	Debug(msg string, keyvals ...any)

	// Info logs general operational information.
	Info(msg string, keyvals ...any)

	// Warn logs potentially problematic situations.
	Warn(msg string, keyvals ...any)

	// Error logs error conditions.
	Error(msg string, keyvals ...any)
}
