package domain

// DefaultSystemPrompt is the built-in system instruction.
// %s is replaced with RefusalSentence.
const DefaultSystemPrompt = "You are ConahGPT. Answer the user's question ONLY using the small CONTEXT provided. " +
	"If the answer is not in CONTEXT, reply exactly: '%s' " +
	"Answer in one short paragraph. Do not include citations in the text; they are added by the app."

// DefaultAnswerPrompt is the built-in question template.
// The first %s is the retrieved context, the second the question.
const DefaultAnswerPrompt = "CONTEXT (use this only):\n%s\n\nQUESTION: %s\n\nANSWER:"
