package interfaces

import "context"

// MediaSource fetches raw attachment bytes from the message gateway
type MediaSource interface {
	Fetch(ctx context.Context, mediaURL string) ([]byte, error)
}

// Transcoder converts raw attachment audio into a canonical MP3 container
type Transcoder interface {
	Convert(ctx context.Context, data []byte, contentType string) ([]byte, error)
}

// SpeechToText transcribes canonical audio into text
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// AudioArchive stores raw audio and returns a stable reference to it.
// This is a soft dependency: ingestion proceeds without it.
type AudioArchive interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
