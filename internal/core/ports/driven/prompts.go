package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names without an override
	// return the built-in default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSystem is the system instruction given to the model.
	// The template expects a %s placeholder for the refusal sentence.
	PromptSystem = "system"

	// PromptAnswer wraps the retrieved context and the question.
	// The template expects %s (context) then %s (question).
	PromptAnswer = "answer"
)
