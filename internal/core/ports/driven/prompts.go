package driven

// PromptStore provides the templates chat-based text QA providers send.
type PromptStore interface {
	// Load returns the template for name. Well-known names always resolve,
	// falling back to a built-in default.
	Load(name string) (string, error)
}

// Well-known prompt names.
const (
	// PromptExtractiveSystem instructs a chat model to answer with a verbatim span.
	// This prompt has no format placeholders.
	PromptExtractiveSystem = "extractive_system"

	// PromptExtractiveUser carries the context and the question.
	// The template expects two %s placeholders: context, then question.
	PromptExtractiveUser = "extractive_user"
)

// PromptStoreAware is an optional interface for adapters that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the adapter uses its built-in defaults.
	SetPromptStore(store PromptStore)
}
