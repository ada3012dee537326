package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gorekall/pkg/ingest"
	"github.com/gitrdm/gorekall/pkg/rekall"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The query ran but found nothing (match)
	ExitCommandError = 2 // Bad flags, unreadable inputs, invalid configuration
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

type mapping = *rekall.IntervalSetMapping[string, string]

// count renders n with thousands separators and the right noun form.
func count(n int, singular, plural string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, singular, plural)
}

func number(f float64) string { return humanize.CommafWithDigits(f, 3) }

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q has no encoder", format)
}

// writeMapping prints m in the requested format, or writes it to path when
// path is set.
func writeMapping(w io.Writer, format, path string, m mapping) error {
	records := ingest.ToRecords(m)
	if path != "" {
		if err := ingest.WriteFile(path, records); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
		fmt.Fprintf(w, "wrote %s to %s\n", count(len(records), "interval", "intervals"), path)
		return nil
	}
	switch format {
	case "yaml":
		return ingest.WriteYAML(w, records)
	case "json":
		return encode(w, format, records)
	}
	for _, k := range rekall.SortedKeys(m) {
		for _, iv := range m.Get(k).Intervals() {
			fmt.Fprintf(w, "%s %s\n", k, formatInterval(iv))
		}
	}
	return nil
}

func formatInterval(iv rekall.Interval[string]) string {
	if iv.Payload == "" {
		return iv.Bounds.String()
	}
	return iv.Bounds.String() + " " + iv.Payload
}
