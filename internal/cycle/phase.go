// Package cycle implements the price-cycle domain for Fuel Alert.
// It provides the phase types, the buying-tip classifier, and the
// transition rule that decides when a city crosses into its buy window.
package cycle

import "strings"

// Phase classifies a city's current position in its price cycle.
type Phase string

const (
	// PhaseUnknown is the sentinel for "never yet observed". The
	// classifier never produces it; it only exists as initial state.
	PhaseUnknown Phase = "UNKNOWN"
	// PhaseWait means prices are not at the bottom of the cycle.
	PhaseWait Phase = "WAIT"
	// PhaseBuy means prices are at the bottom of the cycle.
	PhaseBuy Phase = "BUY"
)

// Valid reports whether p is one of the three defined phases.
func (p Phase) Valid() bool {
	return p == PhaseUnknown || p == PhaseWait || p == PhaseBuy
}

// StateRecord maps each known city to its last observed phase.
type StateRecord map[string]Phase

// NewStateRecord returns a record with every city set to PhaseUnknown.
func NewStateRecord(cities []string) StateRecord {
	rec := make(StateRecord, len(cities))
	for _, c := range cities {
		rec[c] = PhaseUnknown
	}
	return rec
}

// NormalizeCity lower-cases and trims a city name.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// ValidCity reports whether city (already normalized) is a member of the
// configured city set.
func ValidCity(city string, cities []string) bool {
	for _, c := range cities {
		if c == city {
			return true
		}
	}
	return false
}
