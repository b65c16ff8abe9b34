package interfaces

import "context"

// Embedder generates an embedding vector for a text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer generates a completion for a user message under a composed
// system instruction
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// TagSuggester proposes tags for a transcription given the user's existing
// tag vocabulary
type TagSuggester interface {
	SuggestTags(ctx context.Context, transcription string, existing []string) ([]string, error)
}
