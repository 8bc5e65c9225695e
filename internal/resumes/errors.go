package resumes

import "errors"

var (
	ErrNotFound          = errors.New("resume not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrLimitReached      = errors.New("resume limit reached for plan")
)
