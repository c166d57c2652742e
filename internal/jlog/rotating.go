package jlog

import "gopkg.in/natefinch/lumberjack.v2"

// NewRotatingFile returns a Logger whose sink writes through a rotating log
// file, the same way ausocean-av's long-running capture pipelines keep their
// diagnostic output bounded. Intended for the CLI collaborator, which may
// decode many files in one run and should not grow an unbounded log.
func NewRotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) *Logger {
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return New(rot)
}
