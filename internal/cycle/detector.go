package cycle

// ShouldAlert reports whether the change from previous to current phase
// warrants a subscriber notification. The rule is edge-triggered: it
// fires only on the WAIT→BUY crossing.
//
// UNKNOWN→BUY stays silent: on the very first observation of a city
// there is no evidence the price had recently been high. BUY→BUY stays
// silent so subscribers hear about a buy window exactly once.
func ShouldAlert(previous, current Phase) bool {
	return previous == PhaseWait && current == PhaseBuy
}
