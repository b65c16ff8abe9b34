package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/memovox/memovox/pkg/utils/async"
	"github.com/memovox/memovox/pkg/utils/logging"
)

const (
	replyDownloadFailed    = "Sorry, I couldn't download your audio."
	replyConversionFailed  = "Sorry, I had trouble converting your audio."
	replyTranscribeFailed  = "Sorry, I couldn't transcribe your audio. Please try sending it again."
	replyEmptyTranscript   = "I couldn't make out any words in that recording. Please try again."
	replyPipelineTimeout   = "Sorry, that took too long to process. Please try again, or send it as text."
	replyPersistFailed     = "Sorry, something went wrong saving your thought. Please try again."
	replyThoughtSaved      = "Thought saved!"
	replyMissingCollab     = "Sorry, I can't process voice notes right now. Please try again later."
	tagConfirmInstructions = "Reply with tags to apply, or 'skip'."
)

// IngestAudio runs the voice-note pipeline: download, convert, transcribe,
// suggest tags, persist. Download through transcription share one deadline;
// a stage failure yields a stage-specific apology and persists nothing.
// Tag suggestion, embedding, and archival degrade silently.
func (uc *UseCases) IngestAudio(ctx context.Context, msg model.InboundMessage) (string, error) {
	logger := logging.From(ctx)

	if uc.media == nil || uc.transcoder == nil || uc.stt == nil {
		return replyMissingCollab, goerr.New("audio pipeline collaborators are not configured")
	}

	transcript, data, err := uc.transcribe(ctx, msg)
	if err != nil {
		return replyForStage(err), err
	}
	if transcript == "" {
		// silence or noise only; soft failure, nothing persisted
		logger.Info("empty transcript, skipping persistence", "userID", msg.UserID)
		return replyEmptyTranscript, nil
	}

	suggested := uc.suggestTags(ctx, msg.UserID, transcript)

	thought := &model.Thought{
		UserID:        msg.UserID,
		AudioRef:      msg.MediaURL,
		Transcription: transcript,
	}
	stored, err := uc.repo.Thought().Create(ctx, thought)
	if err != nil {
		return replyPersistFailed, goerr.Wrap(err, "failed to persist thought", goerr.V("userID", msg.UserID))
	}

	uc.attachEmbedding(ctx, stored, transcript)
	uc.archiveAudio(ctx, stored, data, msg.MediaContentType)

	if len(suggested) == 0 {
		return replyThoughtSaved, nil
	}

	suggestedNames := make([]types.TagName, 0, len(suggested))
	for _, s := range suggested {
		suggestedNames = append(suggestedNames, types.NewTagName(s))
	}
	uc.pending.Put(model.PendingTagConfirmation{
		UserID:        msg.UserID,
		ThoughtID:     stored.ID,
		SuggestedTags: suggestedNames,
		CreatedAt:     uc.clock(),
	})

	return fmt.Sprintf("Heard: %q\n\nSuggested tags: %s\n%s",
		transcript, strings.Join(suggested, ", "), tagConfirmInstructions), nil
}

// transcribe runs the deadline-bounded stages and returns the trimmed
// transcript together with the raw audio for archival
func (uc *UseCases) transcribe(ctx context.Context, msg model.InboundMessage) (string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.config.PipelineTimeout)
	defer cancel()

	data, err := uc.media.Fetch(ctx, msg.MediaURL)
	if err != nil {
		return "", nil, goerr.Wrap(errors.Join(types.ErrDownloadFailed, err),
			"failed to download voice note", goerr.V("userID", msg.UserID))
	}

	converted, err := uc.transcoder.Convert(ctx, data, msg.MediaContentType)
	if err != nil {
		return "", nil, goerr.Wrap(errors.Join(types.ErrConversionFailed, err),
			"failed to convert voice note", goerr.V("contentType", msg.MediaContentType))
	}

	transcript, err := uc.stt.Transcribe(ctx, converted)
	if err != nil {
		return "", nil, goerr.Wrap(errors.Join(types.ErrTranscriptionFailed, err),
			"failed to transcribe voice note", goerr.V("userID", msg.UserID))
	}

	return strings.TrimSpace(transcript), data, nil
}

// replyForStage maps a pipeline error to its user-facing apology. The
// deadline reply takes precedence over the stage it happened to interrupt.
func replyForStage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return replyPipelineTimeout
	case errors.Is(err, types.ErrDownloadFailed):
		return replyDownloadFailed
	case errors.Is(err, types.ErrConversionFailed):
		return replyConversionFailed
	case errors.Is(err, types.ErrTranscriptionFailed):
		return replyTranscribeFailed
	default:
		return replyPersistFailed
	}
}

// suggestTags asks the LLM for tags against the user's existing vocabulary.
// Any failure degrades to no suggestions and no confirmation flow.
func (uc *UseCases) suggestTags(ctx context.Context, userID types.UserID, transcript string) []string {
	if uc.suggester == nil {
		return nil
	}
	logger := logging.From(ctx)

	var existing []string
	tags, err := uc.repo.Tag().List(ctx, userID)
	if err != nil {
		logger.Warn("failed to load tag vocabulary", "error", err, "userID", userID)
	} else {
		for _, tag := range tags {
			existing = append(existing, string(tag.Name))
		}
	}

	suggested, err := uc.suggester.SuggestTags(ctx, transcript, existing)
	if err != nil {
		logger.Warn("tag suggestion failed, proceeding untagged", "error", err, "userID", userID)
		return nil
	}
	return suggested
}

// attachEmbedding makes the thought findable by similarity. The thought is
// already persisted; a failure here leaves it retrievable by recency only.
func (uc *UseCases) attachEmbedding(ctx context.Context, thought *model.Thought, transcript string) {
	if uc.embedder == nil {
		return
	}
	logger := logging.From(ctx)

	embedding, err := uc.embedder.Embed(ctx, transcript)
	if err != nil {
		logger.Warn("embedding generation failed", "error", err, "thoughtID", thought.ID)
		return
	}
	if err := uc.repo.Thought().AttachEmbedding(ctx, thought.UserID, thought.ID, embedding); err != nil {
		logger.Warn("failed to attach embedding", "error", err, "thoughtID", thought.ID)
	}
}

// archiveAudio copies the raw audio to durable storage in the background.
// Gateway media URLs expire; the archive keeps the original recording
// available past that.
func (uc *UseCases) archiveAudio(ctx context.Context, thought *model.Thought, data []byte, contentType string) {
	if uc.archive == nil || len(data) == 0 {
		return
	}

	key := string(thought.ID) + audioExtension(contentType)
	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := uc.archive.Save(ctx, key, data, contentType); err != nil {
			return goerr.Wrap(err, "failed to archive audio", goerr.V("key", key))
		}
		return nil
	})
}

func audioExtension(contentType string) string {
	switch contentType {
	case "audio/amr":
		return ".amr"
	case "audio/3gpp", "audio/3gpp2":
		return ".3gp"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	default:
		return ".audio"
	}
}
