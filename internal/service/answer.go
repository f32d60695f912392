package service

import "strings"

// refusalPhrases are case-insensitive substrings the model sometimes emits
// instead of the sentinel despite instructions. Best-effort safety net.
var refusalPhrases = []string{
	"no information found",
	"not present in the provided context",
	"the context does not contain",
	"no encuentro esa información",
	"el contexto no contiene",
}

// ProcessAnswer normalizes raw model output. It returns the trimmed answer
// and true for a grounded answer, or ("", false) when the output is blank,
// contains the refusal marker, or matches a known refusal phrasing.
func ProcessAnswer(raw, marker string) (string, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", false
	}

	if marker != "" && strings.Contains(clean, marker) {
		return "", false
	}

	lower := strings.ToLower(clean)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return "", false
		}
	}

	return clean, true
}
