package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/memovox/memovox/pkg/utils/logging"
)

//go:embed prompt/responder_system.md
var responderSystemPromptTmpl string

var responderSystemPrompt = template.Must(template.New("responder_system").Parse(responderSystemPromptTmpl))

const (
	replyCompletionFailed = "Sorry, I encountered an error. Please try again."
	replyNoCompleter      = "Sorry, I can't answer questions right now. Please try again later."
	replyNoThoughtsYet    = "You haven't recorded any thoughts yet. Send me a voice message to get started!"
)

type responderPromptData struct {
	Persona  string
	Thoughts []string
	History  []model.WindowTurn
}

// Answer replies to a text message with a completion grounded in the user's
// own stored thoughts and the recent conversation window. Retrieval is a
// soft dependency: without an embedder or on search failure, the prompt
// carries no thought context.
func (uc *UseCases) Answer(ctx context.Context, userID types.UserID, message string) (string, error) {
	if uc.completer == nil {
		return replyNoCompleter, goerr.Wrap(types.ErrNoCompletion, "completer is not configured")
	}

	retrieved := uc.retrieve(ctx, userID, message)
	history := uc.windows.Recent(userID, uc.config.HistoryTurns)

	var prompt bytes.Buffer
	data := responderPromptData{
		Persona: uc.config.Persona,
		History: history,
	}
	for _, thought := range retrieved {
		data.Thoughts = append(data.Thoughts, thought.Transcription)
	}
	if err := responderSystemPrompt.Execute(&prompt, data); err != nil {
		return replyCompletionFailed, goerr.Wrap(err, "failed to render system prompt")
	}

	reply, err := uc.completer.Complete(ctx, prompt.String(), message)
	if err != nil {
		return replyCompletionFailed, goerr.Wrap(errors.Join(types.ErrNoCompletion, err),
			"completion failed", goerr.V("userID", userID))
	}
	reply = truncateReply(reply, uc.config.ReplyLimit)

	uc.recordTurn(ctx, userID, message, reply, retrieved)

	return reply, nil
}

// retrieve runs the per-user similarity search. Failures degrade to an
// empty context block.
func (uc *UseCases) retrieve(ctx context.Context, userID types.UserID, message string) []*model.Thought {
	if uc.embedder == nil {
		return nil
	}
	logger := logging.From(ctx)

	embedding, err := uc.embedder.Embed(ctx, message)
	if err != nil {
		logger.Warn("query embedding failed, answering without context", "error", err, "userID", userID)
		return nil
	}

	thoughts, err := uc.repo.Thought().FindByEmbedding(ctx, userID, embedding, uc.config.TopK)
	if err != nil {
		logger.Warn("similarity search failed, answering without context", "error", err, "userID", userID)
		return nil
	}
	return thoughts
}

// recordTurn appends the exchange to the rolling window and the permanent
// log. Log persistence failure does not fail the turn.
func (uc *UseCases) recordTurn(ctx context.Context, userID types.UserID, message, reply string, retrieved []*model.Thought) {
	thoughtIDs := make([]types.ThoughtID, 0, len(retrieved))
	for _, thought := range retrieved {
		thoughtIDs = append(thoughtIDs, thought.ID)
	}

	uc.windows.Append(userID, model.WindowTurn{
		Message:    message,
		Response:   reply,
		ThoughtIDs: thoughtIDs,
		At:         uc.clock(),
	})

	turn := &model.ChatTurn{
		UserID:            userID,
		Message:           message,
		Response:          reply,
		RelatedThoughtIDs: thoughtIDs,
	}
	if err := uc.repo.ChatTurn().Put(ctx, turn); err != nil {
		logging.From(ctx).Warn("failed to persist chat turn", "error", err, "userID", userID)
	}
}

// truncateReply enforces the channel length ceiling. A truncated reply is
// exactly limit characters and ends in an ellipsis.
func truncateReply(reply string, limit int) string {
	runes := []rune(reply)
	if len(runes) <= limit {
		return reply
	}
	return string(runes[:limit-1]) + "…"
}

// RecentThoughts lists the user's latest thoughts as numbered previews
func (uc *UseCases) RecentThoughts(ctx context.Context, userID types.UserID) (string, error) {
	thoughts, err := uc.repo.Thought().ListRecent(ctx, userID, uc.config.RecentLimit)
	if err != nil {
		return replyCompletionFailed, goerr.Wrap(err, "failed to list recent thoughts", goerr.V("userID", userID))
	}
	if len(thoughts) == 0 {
		return replyNoThoughtsYet, nil
	}

	var sb strings.Builder
	sb.WriteString("Your recent thoughts:\n")
	for i, thought := range thoughts {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, previewText(thought.Transcription, 100))
	}
	return sb.String(), nil
}

func previewText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
