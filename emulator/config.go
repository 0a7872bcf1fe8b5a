package emulator

import (
	"github.com/retroenv/retrogolib/log"
)

// NewLogger creates the process logger with the level derived from
// the verbosity flag. Diagnostics go to the error stream; they are
// not part of the functional contract.
func NewLogger(verbose bool) *log.Logger {
	cfg := log.DefaultConfig()
	if verbose {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}
