package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Thought() ThoughtRepository
	ChatTurn() ChatTurnRepository
	Tag() TagRepository

	Close() error
}
