package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/utils/logging"
)

const (
	replyTagsSkipped = "Skipped, thought saved."
	replyTagsFailed  = "Sorry, something went wrong applying your tags."
)

// ConfirmTags consumes a live pending confirmation with the user's reply.
// "skip" discards the suggestion; anything else is a comma-separated tag
// list to apply. The pending entry is gone either way.
func (uc *UseCases) ConfirmTags(ctx context.Context, pending *model.PendingTagConfirmation, body string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(body), "skip") {
		return replyTagsSkipped, nil
	}

	tags := model.ParseTagList(body)
	if len(tags) == 0 {
		return replyTagsSkipped, nil
	}

	for _, tag := range tags {
		if _, err := uc.repo.Tag().Upsert(ctx, pending.UserID, tag); err != nil {
			return replyTagsFailed, goerr.Wrap(err, "failed to upsert tag",
				goerr.V("userID", pending.UserID),
				goerr.V("tag", tag),
			)
		}
	}

	if err := uc.repo.Thought().UpdateTags(ctx, pending.UserID, pending.ThoughtID, tags); err != nil {
		return replyTagsFailed, goerr.Wrap(err, "failed to tag thought",
			goerr.V("userID", pending.UserID),
			goerr.V("thoughtID", pending.ThoughtID),
		)
	}

	logging.From(ctx).Info("tags confirmed",
		"userID", pending.UserID,
		"thoughtID", pending.ThoughtID,
		"tags", tags,
	)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}
	return fmt.Sprintf("Tagged with: %s", strings.Join(names, ", ")), nil
}
