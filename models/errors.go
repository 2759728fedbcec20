package models

import (
	"context"
	"errors"
	"fmt"
)

// FetchError reports a page that could not be retrieved: a non-success
// status, a network failure, or a rendered wait that timed out.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a FetchError for url.
func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

// ExtractionError reports an expected element missing from a fetched page.
type ExtractionError struct {
	URL   string
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s from %s: element not found", e.Field, e.URL)
}

// ParseError reports a currency string that has no numeric reading.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse amount %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err came from an exceeded deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
