package model

import (
	"strings"

	"github.com/memovox/memovox/pkg/domain/types"
)

// InboundMessage is a channel-agnostic inbound SMS/MMS event
type InboundMessage struct {
	UserID           types.UserID
	Body             string
	MediaURL         string
	MediaContentType string
}

// HasMedia reports whether the message carries an attachment
func (x *InboundMessage) HasMedia() bool {
	return x.MediaURL != ""
}

// IsAudio reports whether the attachment is an audio recording
func (x *InboundMessage) IsAudio() bool {
	return strings.HasPrefix(x.MediaContentType, "audio/")
}

// DedupeContent is the content part of the deduplication key: the body for
// text messages, the media reference for attachments (webhook retries carry
// the same media URL).
func (x *InboundMessage) DedupeContent() string {
	if x.HasMedia() {
		return x.MediaURL
	}
	return x.Body
}
