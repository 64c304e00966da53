package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset means there are no records to score; accuracy is undefined
	ErrEmptyDataset = errors.New("empty dataset: accuracy is undefined")

	// ErrMalformedInput means the input is missing a column or a text field
	ErrMalformedInput = errors.New("malformed input")

	// ErrEncoding means the input is not valid UTF-8
	ErrEncoding = errors.New("invalid encoding")
)

// MalformedInputError reports a missing column or missing text field.
// Row is 0 for header problems.
type MalformedInputError struct {
	Row    int
	ID     string
	Column string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("malformed input: header: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("malformed input: row %d (id %q): column %q: %s", e.Row, e.ID, e.Column, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// EncodingError reports a field that is not valid UTF-8
type EncodingError struct {
	Row    int
	Column string
}

func (e *EncodingError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("invalid encoding: header field %q is not valid UTF-8", e.Column)
	}
	return fmt.Sprintf("invalid encoding: row %d: column %q is not valid UTF-8", e.Row, e.Column)
}

func (e *EncodingError) Unwrap() error {
	return ErrEncoding
}
