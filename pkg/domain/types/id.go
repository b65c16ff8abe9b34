package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a user by the phone number that delivered the message,
// in E.164 form (e.g. "+15551234567").
type UserID string

// Validate checks if the UserID looks like a usable identifier
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// ThoughtID is a UUID-based identifier for a Thought
type ThoughtID string

// TurnID is a UUID-based identifier for a ChatTurn
type TurnID string

// TagName is a normalized (lowercase, trimmed) tag label
type TagName string

// NewTagName normalizes a raw tag string. Returns an empty TagName if the
// input contains nothing usable.
func NewTagName(raw string) TagName {
	return TagName(strings.ToLower(strings.TrimSpace(raw)))
}
