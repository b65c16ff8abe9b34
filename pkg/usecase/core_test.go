package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/memovox/memovox/pkg/repository/memory"
	"github.com/memovox/memovox/pkg/usecase"
)

const testUser = types.UserID("+15550001234")

// fakeClock is a controllable time source
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type mockMedia struct {
	mu    sync.Mutex
	calls int
	fetch func(ctx context.Context, mediaURL string) ([]byte, error)
}

func (m *mockMedia) Fetch(ctx context.Context, mediaURL string) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetch != nil {
		return m.fetch(ctx, mediaURL)
	}
	return []byte("raw-audio"), nil
}

func (m *mockMedia) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockTranscoder struct {
	convert func(ctx context.Context, data []byte, contentType string) ([]byte, error)
}

func (m *mockTranscoder) Convert(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	if m.convert != nil {
		return m.convert(ctx, data, contentType)
	}
	return []byte("mp3-audio"), nil
}

type mockSTT struct {
	transcribe func(ctx context.Context, audio []byte) (string, error)
}

func (m *mockSTT) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if m.transcribe != nil {
		return m.transcribe(ctx, audio)
	}
	return "buy milk and eggs", nil
}

type mockEmbedder struct {
	embed func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embed != nil {
		return m.embed(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

type mockCompleter struct {
	mu            sync.Mutex
	calls         int
	systemPrompts []string
	messages      []string
	complete      func(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	m.messages = append(m.messages, userMessage)
	m.mu.Unlock()
	if m.complete != nil {
		return m.complete(ctx, systemPrompt, userMessage)
	}
	return "here is my answer", nil
}

func (m *mockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockCompleter) LastSystemPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.systemPrompts) == 0 {
		return ""
	}
	return m.systemPrompts[len(m.systemPrompts)-1]
}

func (m *mockCompleter) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

type mockSuggester struct {
	suggest func(ctx context.Context, transcription string, existing []string) ([]string, error)
}

func (m *mockSuggester) SuggestTags(ctx context.Context, transcription string, existing []string) ([]string, error) {
	if m.suggest != nil {
		return m.suggest(ctx, transcription, existing)
	}
	return nil, nil
}

type mockArchive struct {
	saved chan string
}

func (m *mockArchive) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.saved != nil {
		m.saved <- key
	}
	return "gs://test-bucket/" + key, nil
}

// testEnv wires the use case aggregate against the in-memory repository and
// happy-path mocks
type testEnv struct {
	repo      *memory.Repository
	media     *mockMedia
	transcode *mockTranscoder
	stt       *mockSTT
	embedder  *mockEmbedder
	completer *mockCompleter
	suggester *mockSuggester
	clock     *fakeClock
	uc        *usecase.UseCases
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:      memory.New(),
		media:     &mockMedia{},
		transcode: &mockTranscoder{},
		stt:       &mockSTT{},
		embedder:  &mockEmbedder{},
		completer: &mockCompleter{},
		suggester: &mockSuggester{},
		clock:     newFakeClock(),
	}

	all := append([]usecase.Option{
		usecase.WithMediaSource(env.media),
		usecase.WithTranscoder(env.transcode),
		usecase.WithSpeechToText(env.stt),
		usecase.WithEmbedder(env.embedder),
		usecase.WithCompleter(env.completer),
		usecase.WithTagSuggester(env.suggester),
	}, opts...)

	env.uc = usecase.New(env.repo, all...)
	env.uc.SetClock(env.clock.Now)

	return env
}

func audioMessage(userID types.UserID, mediaURL string) model.InboundMessage {
	return model.InboundMessage{
		UserID:           userID,
		MediaURL:         mediaURL,
		MediaContentType: "audio/amr",
	}
}

func textMessage(userID types.UserID, body string) model.InboundMessage {
	return model.InboundMessage{
		UserID: userID,
		Body:   body,
	}
}
