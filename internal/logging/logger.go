/*
file: go-redis-server/internal/logging/logger.go
*/

// Package logging provides the leveled logger used across the server.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger is a thin leveled wrapper over the standard library logger. Every
// line carries a level tag plus file:line context via log.Lshortfile.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

const flags = log.Ldate | log.Ltime | log.Lshortfile

// New builds a Logger that writes to stderr.
func New() *Logger {
	return &Logger{
		info:  log.New(os.Stderr, "[INFO]  ", flags),
		warn:  log.New(os.Stderr, "[WARN]  ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
		debug: log.New(os.Stderr, "[DEBUG] ", flags),
	}
}

func (l *Logger) Infof(format string, v ...any)  { l.info.Output(2, fmt.Sprintf(format, v...)) }
func (l *Logger) Warnf(format string, v ...any)  { l.warn.Output(2, fmt.Sprintf(format, v...)) }
func (l *Logger) Errorf(format string, v ...any) { l.error.Output(2, fmt.Sprintf(format, v...)) }
func (l *Logger) Debugf(format string, v ...any) { l.debug.Output(2, fmt.Sprintf(format, v...)) }
