package common

import (
	"fmt"
	"io"
)

type LogWriter struct {
	Verbose  bool
	errors   []error
	warnings []error
	messages []string
	traces   []string
}

// Err records non-nil errors and reports whether the log holds any error at all.
func (w *LogWriter) Err(errs ...error) bool {
	for _, err := range errs {
		if err != nil {
			w.errors = append(w.errors, err)
		}
	}
	return len(w.errors) > 0
}

func (w *LogWriter) Warn(errs ...error) {
	for _, err := range errs {
		if err != nil {
			w.warnings = append(w.warnings, err)
		}
	}
}

func (w *LogWriter) Info(format string, args ...any) {
	w.messages = append(w.messages, fmt.Sprintf(format, args...))
}

func (w *LogWriter) Trace(format string, args ...any) {
	if w.Verbose {
		w.traces = append(w.traces, fmt.Sprintf(format, args...))
	}
}

func (w *LogWriter) HasErrors() bool {
	return len(w.errors) > 0
}

func (w *LogWriter) Errors() []error {
	return w.errors
}

func (w *LogWriter) Warnings() []error {
	return w.warnings
}

func (w *LogWriter) Traces() []string {
	return w.traces
}

func (w *LogWriter) Flush(out io.Writer) {
	for _, t := range w.traces {
		_, _ = fmt.Fprintf(out, "trace: %s\n", t)
	}
	for _, m := range w.messages {
		_, _ = fmt.Fprintf(out, "%s\n", m)
	}
	for _, e := range w.warnings {
		_, _ = fmt.Fprintf(out, "warning: %v\n", e)
	}
	for _, e := range w.errors {
		_, _ = fmt.Fprintf(out, "error: %v\n", e)
	}
	w.errors = nil
	w.warnings = nil
	w.messages = nil
	w.traces = nil
}
