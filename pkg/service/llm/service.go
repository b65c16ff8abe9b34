package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// MaxSuggestedTags caps how many tags a single voice note may receive
const MaxSuggestedTags = 5

// Service adapts a gollem LLM client to the narrow capabilities the
// usecase layer depends on: embeddings, chat completion, and structured
// tag suggestion.
type Service struct {
	llmClient gollem.LLMClient
}

var (
	_ interfaces.Embedder     = &Service{}
	_ interfaces.Completer    = &Service{}
	_ interfaces.TagSuggester = &Service{}
)

// Option is a functional option for service configuration
type Option func(*Service)

// New creates a new LLM service with the provided client
func New(llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &Service{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Embed generates an embedding vector for the given text
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}

	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}

// Complete generates a reply for a user message under the composed system
// instruction
func (s *Service) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userMessage))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no text")
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}

// tagResponse is the structured output of a tag suggestion call
type tagResponse struct {
	Tags []string `json:"tags"`
}

// SuggestTags proposes tags for a transcription, preferring the user's
// existing vocabulary over inventing new names
func (s *Service) SuggestTags(ctx context.Context, transcription string, existing []string) ([]string, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(tagResponseSchema()),
		gollem.WithSessionSystemPrompt(tagSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(tagUserPrompt(transcription, existing)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text")
	}

	var parsed tagResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tag suggestion", goerr.V("response", resp.Texts[0]))
	}

	tags := make([]string, 0, MaxSuggestedTags)
	seen := map[types.TagName]bool{}
	for _, raw := range parsed.Tags {
		name := types.NewTagName(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, string(name))
		if len(tags) == MaxSuggestedTags {
			break
		}
	}

	return tags, nil
}

func tagSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a tagging assistant for a personal memory archive. The user records short voice notes and you propose tags that make them findable later.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Read the transcription and propose between 1 and 5 tags.\n")
	sb.WriteString("2. Prefer tags from the user's existing vocabulary when they fit. Invent a new tag only when nothing existing applies.\n")
	sb.WriteString("3. Tags are short lowercase noun phrases, one or two words.\n")
	sb.WriteString("4. Return only the tags, no commentary.\n")

	return sb.String()
}

func tagUserPrompt(transcription string, existing []string) string {
	var sb strings.Builder

	sb.WriteString("## Existing tags:\n\n")
	if len(existing) == 0 {
		sb.WriteString("(none yet)\n")
	} else {
		for _, tag := range existing {
			fmt.Fprintf(&sb, "- %s\n", tag)
		}
	}

	sb.WriteString("\n## Transcription:\n\n")
	sb.WriteString(transcription)
	sb.WriteString("\n")

	return sb.String()
}

func tagResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "TagSuggestionResponse",
		Description: "Tags proposed for a transcribed voice note",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"tags": {
				Type:        gollem.TypeArray,
				Description: "Proposed tag names, most relevant first",
				Required:    true,
				Items: &gollem.Parameter{
					Type:        gollem.TypeString,
					Description: "A short lowercase tag name",
				},
			},
		},
	}
}
