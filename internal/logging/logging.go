// Package logging builds the *log.Logger every component in this module
// accepts: a stdlib logger, optionally backed by a rotating file writer
// instead of os.Stderr.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures log rotation when file logging is enabled.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a *log.Logger prefixed with "[component] ". If opts is nil
// or opts.Path is empty, it logs to os.Stderr; otherwise it writes through
// a lumberjack rotating writer.
func New(component string, opts *FileOptions) *log.Logger {
	var w io.Writer = os.Stderr

	if opts != nil && opts.Path != "" {
		w = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    orDefaultInt(opts.MaxSizeMB, 100),
			MaxBackups: orDefaultInt(opts.MaxBackups, 5),
			MaxAge:     orDefaultInt(opts.MaxAgeDays, 28),
		}
	}

	return log.New(w, "["+component+"] ", log.LstdFlags)
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
