package formats

import (
	"errors"
	"io"
)

// ErrMissingRequiredFile is returned when an input set lacks a file that
// loading cannot continue without
var ErrMissingRequiredFile = errors.New("missing required file")

type Format interface {
	ParseFile(io.Reader) error
}
