// Package logging provides ports.Logger implementations.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/plugdex/plugdex/internal/ports"
)

// charmLogger adapts charmbracelet/log to ports.Logger.
type charmLogger struct {
	l *log.Logger
}

// New creates a terminal logger writing to w. Verbose enables debug output.
func New(w io.Writer, verbose bool) ports.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &charmLogger{
		l: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Level:           level,
		}),
	}
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
