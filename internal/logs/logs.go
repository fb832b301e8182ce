package logs

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the logging surface the pipeline writes to. Callers may plug
// in their own implementation through the configuration.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// New returns the default logger. With verbose set, per-record progress is
// reported at debug level.
func New(verbose bool) Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	return &charmLogger{l: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "screwdata",
		Level:           level,
	})}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &charmLogger{l: charmlog.NewWithOptions(io.Discard, charmlog.Options{})}
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
