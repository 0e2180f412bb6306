package canvas3d

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes DEBUG and INFO lines to one writer and WARN and ERROR lines to another.
// It is safe for concurrent use.
type DefaultLogger struct {
	debug  atomic.Bool
	info   *log.Logger
	alerts *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(os.Stdout, os.Stderr, prefix, debug)
}

// NewDefaultLoggerTo is NewDefaultLogger with explicit writers.
func NewDefaultLoggerTo(out, errOut io.Writer, prefix string, debug bool) *DefaultLogger {
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	flags := log.LstdFlags | log.Lmicroseconds | log.Lmsgprefix
	l := &DefaultLogger{
		info:   log.New(out, prefix, flags),
		alerts: log.New(errOut, prefix, flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool    { return l.debug.Load() }
func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func emit(to *log.Logger, level, format string, args []any) {
	to.Print(level + ": " + fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.debug.Load() {
		emit(l.info, "DEBUG", format, args)
	}
}

func (l *DefaultLogger) Infof(format string, args ...any)  { emit(l.info, "INFO", format, args) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { emit(l.alerts, "WARN", format, args) }
func (l *DefaultLogger) Errorf(format string, args ...any) { emit(l.alerts, "ERROR", format, args) }

// discardLogger drops everything and never reports debug as enabled.
type discardLogger struct{}

// NewNopLogger is the canvas default when no logger is configured.
func NewNopLogger() Logger { return discardLogger{} }

func (discardLogger) DebugEnabled() bool    { return false }
func (discardLogger) SetDebug(bool)         {}
func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}
