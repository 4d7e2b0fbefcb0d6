package logging

import "github.com/plugdex/plugdex/internal/ports"

// nopLogger discards everything.
type nopLogger struct{}

// Nop returns a logger that discards all output.
func Nop() ports.Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
