package domain

import "errors"

// Domain errors
var (
	// ErrPdfNotFound means no metadata row exists for the requested id.
	ErrPdfNotFound = errors.New("pdf not found")
	// ErrBlobNotFound means the metadata row exists but its blob is gone
	// (orphan metadata) or the key was never written.
	ErrBlobNotFound = errors.New("blob not found")
)
