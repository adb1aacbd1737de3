package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize      = errors.New("invalid size")
	ErrEmptyData        = errors.New("no data for torrent")
	ErrNotAFile         = errors.New("not a file")
	ErrNotADirectory    = errors.New("not a directory")
	ErrInvalidNode      = errors.New("not a valid node")
	ErrWriteFailed      = errors.New("could not write torrent file")
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrOutputExists     = errors.New("output file already exists")
)

// WriteError reports a failed output write together with its cause.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWriteFailed, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}
