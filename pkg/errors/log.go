package errors

import (
	"fmt"
	"os"
)

// LogHandler is a Handler that logs async errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleAsync logs an AsyncError to stderr.
func (h *LogHandler) HandleAsync(err *AsyncError) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[watch error] %s [%s]: %v\n", err.Op, err.Source, err.Err)
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
