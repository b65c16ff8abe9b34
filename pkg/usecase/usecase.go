package usecase

import (
	"time"

	"github.com/memovox/memovox/pkg/domain/interfaces"
)

// Config holds tunable parameters of the message pipeline. Zero values are
// replaced with defaults in New.
type Config struct {
	// Persona is prepended to every responder system prompt
	Persona string

	// PipelineTimeout bounds download, conversion, and transcription of a
	// single voice note together
	PipelineTimeout time.Duration

	// TopK is how many thoughts are retrieved per query
	TopK int

	// ReplyLimit is the hard ceiling on outbound reply length in characters
	ReplyLimit int

	// HistoryTurns is how many recent turns are included in the prompt
	HistoryTurns int

	// RecentLimit caps the "recent" command listing
	RecentLimit int

	DedupeTTL  time.Duration
	PendingTTL time.Duration
	WindowTTL  time.Duration
}

// DefaultConfig returns the pipeline defaults
func DefaultConfig() Config {
	return Config{
		Persona:         defaultPersona,
		PipelineTimeout: 25 * time.Second,
		TopK:            5,
		ReplyLimit:      1500,
		HistoryTurns:    3,
		RecentLimit:     5,
		DedupeTTL:       time.Minute,
		PendingTTL:      5 * time.Minute,
		WindowTTL:       30 * time.Minute,
	}
}

const defaultPersona = "You are a helpful personal memory assistant. " +
	"You help the user recall and reflect on thoughts they have recorded. " +
	"Answer concisely; replies are delivered over SMS."

// UseCases aggregates the message pipeline use cases. The repository and
// media collaborators are required; embedding, completion, tag suggestion,
// and audio archival are optional capabilities and their absence degrades
// the pipeline instead of failing it.
type UseCases struct {
	repo       interfaces.Repository
	media      interfaces.MediaSource
	transcoder interfaces.Transcoder
	stt        interfaces.SpeechToText

	embedder  interfaces.Embedder
	completer interfaces.Completer
	suggester interfaces.TagSuggester
	archive   interfaces.AudioArchive

	config Config

	dedupe    *dedupeFilter
	pending   *pendingStore
	windows   *conversationStore
	userLocks *keyedMutex

	now func() time.Time
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithMediaSource sets the attachment download collaborator
func WithMediaSource(media interfaces.MediaSource) Option {
	return func(uc *UseCases) {
		uc.media = media
	}
}

// WithTranscoder sets the audio conversion collaborator
func WithTranscoder(transcoder interfaces.Transcoder) Option {
	return func(uc *UseCases) {
		uc.transcoder = transcoder
	}
}

// WithSpeechToText sets the transcription collaborator
func WithSpeechToText(stt interfaces.SpeechToText) Option {
	return func(uc *UseCases) {
		uc.stt = stt
	}
}

// WithEmbedder enables embedding generation for stored thoughts and queries
func WithEmbedder(embedder interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithCompleter enables LLM replies to text messages
func WithCompleter(completer interfaces.Completer) Option {
	return func(uc *UseCases) {
		uc.completer = completer
	}
}

// WithTagSuggester enables tag suggestion for new thoughts
func WithTagSuggester(suggester interfaces.TagSuggester) Option {
	return func(uc *UseCases) {
		uc.suggester = suggester
	}
}

// WithAudioArchive enables raw audio archival
func WithAudioArchive(archive interfaces.AudioArchive) Option {
	return func(uc *UseCases) {
		uc.archive = archive
	}
}

// WithConfig overrides the default pipeline configuration
func WithConfig(cfg Config) Option {
	return func(uc *UseCases) {
		uc.config = cfg
	}
}

// New creates the use case aggregate
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		config: DefaultConfig(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	defaults := DefaultConfig()
	if uc.config.Persona == "" {
		uc.config.Persona = defaults.Persona
	}
	if uc.config.PipelineTimeout <= 0 {
		uc.config.PipelineTimeout = defaults.PipelineTimeout
	}
	if uc.config.TopK <= 0 {
		uc.config.TopK = defaults.TopK
	}
	if uc.config.ReplyLimit <= 0 {
		uc.config.ReplyLimit = defaults.ReplyLimit
	}
	if uc.config.HistoryTurns <= 0 {
		uc.config.HistoryTurns = defaults.HistoryTurns
	}
	if uc.config.RecentLimit <= 0 {
		uc.config.RecentLimit = defaults.RecentLimit
	}
	if uc.config.DedupeTTL <= 0 {
		uc.config.DedupeTTL = defaults.DedupeTTL
	}
	if uc.config.PendingTTL <= 0 {
		uc.config.PendingTTL = defaults.PendingTTL
	}
	if uc.config.WindowTTL <= 0 {
		uc.config.WindowTTL = defaults.WindowTTL
	}

	uc.dedupe = newDedupeFilter(uc.config.DedupeTTL, uc.clock)
	uc.pending = newPendingStore(uc.config.PendingTTL, uc.clock)
	uc.windows = newConversationStore(uc.config.WindowTTL, uc.clock)
	uc.userLocks = newKeyedMutex()

	return uc
}

func (uc *UseCases) clock() time.Time {
	return uc.now()
}
