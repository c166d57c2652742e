// Package jlog provides the four-level diagnostic sink used throughout the
// decoder: Verbose, Info, Warn and Error. It counts messages per level so a
// caller can tell, without re-reading the log, whether a decode is trustworthy.
package jlog

import (
	"fmt"
	"io"
	"sync"
)

// Level is one of the four diagnostic levels a decode may emit at.
type Level int

const (
	Verbose Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Verbose:
		return "VERBOSE"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Sink receives one pre-formatted diagnostic line, already tagged with its
// level. It must not retain the string slice beyond the call.
type Sink func(level Level, line string)

// Logger is the decoder's error accumulator: every segment handler and every
// stage of the entropy pipeline logs through it rather than calling fmt
// directly, so errors and warnings are counted no matter which component
// raised them.
type Logger struct {
	mu     sync.Mutex
	counts [4]uint
	sink   Sink
}

// New returns a Logger that writes formatted lines to w, tagged with their
// level, one per line.
func New(w io.Writer) *Logger {
	return &Logger{
		sink: func(level Level, line string) {
			fmt.Fprintf(w, "%-7s %s\n", level, line)
		},
	}
}

// NewSilent returns a Logger that only counts; it never formats or writes.
func NewSilent() *Logger {
	return &Logger{}
}

// NewWithSink returns a Logger that forwards every message to sink, which may
// be nil (equivalent to NewSilent).
func NewWithSink(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Logf records one diagnostic at level, incrementing that level's counter and
// invoking the sink (if any) with the formatted line.
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	l.counts[level]++
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		sink(level, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Verbosef(format string, args ...interface{}) { l.Logf(Verbose, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})    { l.Logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})    { l.Logf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})   { l.Logf(Error, format, args...) }

// Count returns how many messages have been logged at level.
func (l *Logger) Count(level Level) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[level]
}

// ErrorCount and WarnCount are the two counters the decode result exposes
// directly: a non-zero ErrorCount means the raster produced alongside it is
// not trusted.
func (l *Logger) ErrorCount() uint { return l.Count(Error) }
func (l *Logger) WarnCount() uint  { return l.Count(Warn) }
