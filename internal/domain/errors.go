package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument       = errors.New("document has no content")
	ErrUnreadableDocument  = errors.New("document could not be read")
	ErrUnknownAgent        = errors.New("unknown agent")
	ErrInvalidVerdict      = errors.New("model returned an invalid verdict")
	ErrLLMUnavailable      = errors.New("language model backend unavailable")
	ErrInvalidPrice        = errors.New("invalid price")
)
