package loaders

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed     = errors.New("malformed record")
	ErrIndexRange    = errors.New("index out of range")
	ErrUnknownFormat = errors.New("unknown format")
)

// ParseError names the file and line a record could not be read from.
type ParseError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.File, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(file string, line int, text string, err error) *ParseError {
	return &ParseError{File: file, Line: line, Text: text, Err: err}
}
