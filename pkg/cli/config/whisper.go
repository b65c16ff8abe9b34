package config

import (
	"log/slog"

	"github.com/memovox/memovox/pkg/service/whisper"
	"github.com/urfave/cli/v3"
)

// Whisper holds configuration for the speech-to-text backend
type Whisper struct {
	apiKey string
}

// Flags returns CLI flags for Whisper configuration
func (w *Whisper) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key for Whisper transcription",
			Sources:     cli.EnvVars("MEMOVOX_OPENAI_API_KEY"),
			Destination: &w.apiKey,
		},
	}
}

func (w Whisper) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-key.len", len(w.apiKey)),
	)
}

// Configure creates a transcription client, or nil when no API key is
// configured
func (w *Whisper) Configure() (*whisper.Client, error) {
	if w.apiKey == "" {
		return nil, nil
	}
	return whisper.New(w.apiKey)
}
