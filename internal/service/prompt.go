package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/documind/internal/domain"
)

// NoInfoMarker is the sentinel the model must emit when the context lacks
// the answer. The service uses this single token internally; localized
// refusal messages exist only at the API boundary.
const NoInfoMarker = "[[NO_INFO_FOUND]]"

// DefaultMaxAnswerWords caps the length of a grounded answer
const DefaultMaxAnswerWords = 50

const systemTemplate = `You are a backend data extraction engine. You are NOT a chat assistant.
You have no internal knowledge. You can ONLY read the provided XML context.

CONTEXT START:
<context>
%s
</context>
CONTEXT END.

INSTRUCTIONS (MUST FOLLOW STRICTLY):
1. SEARCH the context for the answer to the user question.
2. IF the answer is found: Output ONLY the answer. Max %d words. No intro. No "Here is the answer".
3. IF the answer is NOT strictly in the context: Output EXACTLY: %s
4. NEVER invent data. NEVER give hypothetical examples. NEVER ask follow-up questions.
5. LANGUAGE: Answer exclusively in the language with code "%s".`

// Prompt is a system instruction plus user message ready for the chat model
type Prompt struct {
	System string
	User   string
}

// BuildPrompt assembles a grounding-only prompt from retrieved chunks.
// Each chunk is wrapped in a fragment marker so the model cannot conflate
// chunk boundaries.
func BuildPrompt(chunks []domain.ScoredChunk, question, language string, maxAnswerWords int) Prompt {
	if maxAnswerWords <= 0 {
		maxAnswerWords = DefaultMaxAnswerWords
	}

	fragments := make([]string, 0, len(chunks))
	for _, c := range chunks {
		fragments = append(fragments, "<fragment>\n"+c.Text+"\n</fragment>")
	}
	contextBlock := strings.Join(fragments, "\n")

	return Prompt{
		System: fmt.Sprintf(systemTemplate, contextBlock, maxAnswerWords, NoInfoMarker, language),
		User:   question,
	}
}
