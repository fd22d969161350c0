package cycle

import "strings"

// WAIT signals take priority over BUY signals: the ACCC wording for a
// falling or peaking cycle sometimes mentions "lowest prices" in the
// same sentence ("shop around for the lowest prices"), and the system
// must never alert on ambiguous evidence.
var waitPhrases = []string{
	"decreasing",
	"may decrease",
	"shop around",
	"high point",
	"increasing",
	"around a high",
}

var buyPhrases = []string{
	"lowest point",
	"good time to buy",
	"now is a good time",
	"around the lowest",
	"at the lowest",
}

// Classify maps a city's buying-tip text to a phase. Matching is
// case-insensitive substring containment. Empty or unrecognized text
// classifies as PhaseWait, the conservative default.
func Classify(text string) Phase {
	t := strings.ToLower(text)

	for _, phrase := range waitPhrases {
		if strings.Contains(t, phrase) {
			return PhaseWait
		}
	}

	for _, phrase := range buyPhrases {
		if strings.Contains(t, phrase) {
			return PhaseBuy
		}
	}

	return PhaseWait
}
