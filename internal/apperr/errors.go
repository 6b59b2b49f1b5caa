// Package apperr holds the sentinel errors shared by the extractor and the dashboards.
package apperr

import "errors"

// Extractor failures. Every error returned by extractor.Extract wraps exactly one of these.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrReadFailure    = errors.New("read failure")
	ErrWriteFailure   = errors.New("write failure")
)

// Dashboard failures.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidIndex  = errors.New("invalid file index")
	ErrInvalidColumn = errors.New("invalid column")
)
