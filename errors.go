package tank

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is matched by every error that is the caller's to fix by
// changing configuration rather than data.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a configuration value outside its domain.
type ConfigurationError struct {
	Field    string
	Value    string
	Expected string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected %s", e.Field, e.Value, e.Expected)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InputNotFoundError is returned before any load is attempted when a
// requested input path does not exist.
type InputNotFoundError struct {
	Kind string // "expression matrix", "gene list", ...
	Path string
}

func (e *InputNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s not found: no path was provided", e.Kind)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// EmptyOverlapError means a sample whitelist shares no identifier with the
// matrix columns.
type EmptyOverlapError struct {
	Requested int
	Columns   []string
}

func (e *EmptyOverlapError) Error() string {
	shown := e.Columns
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return fmt.Sprintf("no overlap between requested samples (%d requested) and matrix columns (%d columns, e.g. %s)",
		e.Requested, len(e.Columns), strings.Join(shown, ", "))
}

func (e *EmptyOverlapError) Is(target error) bool {
	return target == ErrConfiguration
}

// NoMatchingGenesWarning is not fatal. It is recorded when a gene whitelist
// matches none of the matrix rows.
type NoMatchingGenesWarning struct {
	Requested int
	Rows      int
}

func (w NoMatchingGenesWarning) String() string {
	return fmt.Sprintf("gene whitelist (%d entries) matched none of the %d matrix rows", w.Requested, w.Rows)
}
