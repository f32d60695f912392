package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessAnswer_GroundedAnswerPassesThrough(t *testing.T) {
	answer, ok := ProcessAnswer("  The warranty period is 24 months.  ", NoInfoMarker)

	assert.True(t, ok)
	assert.Equal(t, "The warranty period is 24 months.", answer)
}

func TestProcessAnswer_BlankOutput(t *testing.T) {
	answer, ok := ProcessAnswer("   \n ", NoInfoMarker)

	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestProcessAnswer_SentinelMarker(t *testing.T) {
	answer, ok := ProcessAnswer(NoInfoMarker, NoInfoMarker)

	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestProcessAnswer_SentinelEmbeddedInText(t *testing.T) {
	answer, ok := ProcessAnswer("Sorry, [[NO_INFO_FOUND]] for that question.", NoInfoMarker)

	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestProcessAnswer_RefusalPhraseEnglish(t *testing.T) {
	answer, ok := ProcessAnswer("There is No Information Found in the documents.", NoInfoMarker)

	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestProcessAnswer_RefusalPhraseSpanish(t *testing.T) {
	answer, ok := ProcessAnswer("Lo siento, no encuentro esa información.", NoInfoMarker)

	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestProcessAnswer_NoMarkerConfigured(t *testing.T) {
	answer, ok := ProcessAnswer("plain answer", "")

	assert.True(t, ok)
	assert.Equal(t, "plain answer", answer)
}
