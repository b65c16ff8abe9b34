package types

import "errors"

// Pipeline stage errors. Each maps to a stage-specific user-facing reply;
// the raw error text never reaches the outbound channel.
var (
	ErrDownloadFailed      = errors.New("audio download failed")
	ErrConversionFailed    = errors.New("audio conversion failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrEmptyTranscript     = errors.New("transcript is empty")
	ErrNoCompletion        = errors.New("completion failed")
)
