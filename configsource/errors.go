package configsource

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for files whose extension is not a
// recognised configuration format.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// ParseError reports a configuration file that could not be parsed.
type ParseError struct {
	Path    string // File name or "<name>" for in-memory documents
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValueError reports a configuration value that does not convert to the
// type the reader asked for.
type ValueError struct {
	Key   string // Full configuration key
	Value string // Raw value found in the source
	Type  string // Requested type, e.g. "int"
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: cannot use %q as %s", e.Key, e.Value, e.Type)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
