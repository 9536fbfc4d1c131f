package repomanager

import "errors"

var (
	ErrUnsafeArchivePath = errors.New("archive entry escapes destination")
	ErrUnknownSource     = errors.New("unknown snapshot source")
)
