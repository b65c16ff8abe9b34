package whisper

import (
	"bytes"
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	openai "github.com/sashabaranov/go-openai"
)

// Client transcribes MP3 voice notes with the OpenAI Whisper API
type Client struct {
	api *openai.Client
}

var _ interfaces.SpeechToText = &Client{}

// Option is a functional option for client configuration
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at an alternative API endpoint
func WithBaseURL(baseURL string) Option {
	return func(cfg *openai.ClientConfig) {
		cfg.BaseURL = baseURL
	}
}

// New creates a new Whisper transcription client
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		api: openai.NewClientWithConfig(cfg),
	}, nil
}

// Transcribe sends the audio to Whisper and returns the transcription text.
// Whitespace-only results are collapsed to the empty string so callers can
// treat silence and noise-only notes uniformly.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", goerr.New("empty audio payload")
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: "voice-note.mp3",
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to transcribe audio")
	}

	return strings.TrimSpace(resp.Text), nil
}
