package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository for development and tests
type Memory struct {
	thought  *thoughtRepository
	chatTurn *chatTurnRepository
	tag      *tagRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		thought:  newThoughtRepository(),
		chatTurn: newChatTurnRepository(),
		tag:      newTagRepository(),
	}
}

func (m *Memory) Thought() interfaces.ThoughtRepository {
	return m.thought
}

func (m *Memory) ChatTurn() interfaces.ChatTurnRepository {
	return m.chatTurn
}

func (m *Memory) Tag() interfaces.TagRepository {
	return m.tag
}

func (m *Memory) Close() error {
	return nil
}
