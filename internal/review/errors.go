package review

import "errors"

var (
	// ErrBlobRead is returned when a file cannot be read at the requested
	// revision: missing path, transport failure, or undecodable content.
	ErrBlobRead = errors.New("failed to read blob")
	// ErrDecode marks content that is not valid text. Callers skip such files.
	ErrDecode = errors.New("blob is not valid text")
	// ErrPartialAction is returned when a host action fails after an earlier
	// action of the same decision was already applied.
	ErrPartialAction = errors.New("decision partially applied")
)
