package domain

// RefusalSentence is returned when no sufficiently relevant context exists.
// It is also the exact sentence the model is told to use, and its presence
// suppresses citation rendering.
const RefusalSentence = "I cannot answer this question as the information is not in the provided documents."

// NoDocumentsReply is returned when the document collection yields no chunks.
const NoDocumentsReply = "No usable documents are available in the configured Drive folder."

// GenerationErrorReply marks a reply produced while the model was unreachable.
const GenerationErrorReply = ":warning: The answering service is temporarily unavailable. Please try again shortly."

// DegradedReadNote is appended when some documents could not be fully read.
const DegradedReadNote = "_Note: some documents could not be fully read; this answer may be incomplete._"

// Outcome classifies how an answer was produced.
type Outcome string

// Answer outcomes.
const (
	OutcomeAnswered         Outcome = "answered"
	OutcomeRefused          Outcome = "refused"
	OutcomeNoDocuments      Outcome = "no_documents"
	OutcomeGenerationFailed Outcome = "generation_failed"
)

// Answer is the result of running one question through the pipeline.
type Answer struct {
	Question string

	// Text is the model answer (or a fixed reply) without citations.
	Text string

	// Citations are the rendered citation strings in emission order.
	Citations []string

	// Sources are the ranked chunks that were placed in the prompt.
	Sources []RankedChunk

	Outcome Outcome

	// Degraded is true when the reply carries the partial-read note.
	Degraded bool
}

// Reply renders the full reply text: answer, citation block and notes.
func (a Answer) Reply() string {
	reply := a.Text
	for _, c := range a.Citations {
		reply += "\n" + c
	}
	if a.Degraded {
		reply += "\n" + DegradedReadNote
	}
	return reply
}
