package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/utils/logging"
)

// User-facing replies. Internal error text never appears here.
const (
	replyNonAudioMedia = "Sorry, I can only process audio messages. Please send a voice recording."
)

// HandleInbound routes one inbound message and returns the outbound reply
// text. An empty reply means the webhook is acknowledged without a message.
// The returned error is for logging only; the reply text is always safe to
// deliver.
func (uc *UseCases) HandleInbound(ctx context.Context, msg model.InboundMessage) (string, error) {
	if err := msg.UserID.Validate(); err != nil {
		return "", goerr.Wrap(err, "inbound message without a valid sender")
	}

	// Pending confirmations and the conversation window are per-user
	// mutable state; hold the user's lock for the whole routing decision.
	unlock := uc.userLocks.Lock(msg.UserID)
	defer unlock()

	if !uc.dedupe.ShouldProcess(msg.UserID, msg.DedupeContent()) {
		logging.From(ctx).Info("dropping duplicate message", "userID", msg.UserID)
		return "", nil
	}

	if msg.HasMedia() {
		if !msg.IsAudio() {
			return replyNonAudioMedia, nil
		}
		return uc.IngestAudio(ctx, msg)
	}

	body := strings.TrimSpace(msg.Body)
	if body == "" {
		return "", nil
	}

	if pending, ok := uc.pending.Consume(msg.UserID); ok {
		return uc.ConfirmTags(ctx, pending, body)
	}

	if strings.EqualFold(body, "recent") {
		return uc.RecentThoughts(ctx, msg.UserID)
	}

	return uc.Answer(ctx, msg.UserID, body)
}
