package model

import (
	"strings"
	"time"

	"github.com/memovox/memovox/pkg/domain/types"
)

// Tag is a per-user vocabulary entry. UseCount tracks how many thoughts the
// user has confirmed the tag on, so suggestions can prefer familiar labels.
type Tag struct {
	Name      types.TagName
	UserID    types.UserID
	UseCount  int
	CreatedAt time.Time
}

// ParseTagList parses a user-supplied comma-separated tag list. Entries are
// trimmed, lowercased and deduplicated; order of first appearance is kept.
func ParseTagList(input string) []types.TagName {
	parts := strings.Split(input, ",")
	seen := make(map[types.TagName]bool, len(parts))
	tags := make([]types.TagName, 0, len(parts))

	for _, p := range parts {
		tag := types.NewTagName(p)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	return tags
}
