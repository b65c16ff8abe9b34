package llm

// Export internal functions for testing

var (
	TagSystemPrompt = tagSystemPrompt
	TagUserPrompt   = tagUserPrompt
)
