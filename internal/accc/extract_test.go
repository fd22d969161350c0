package accc

import (
	"testing"

	"github.com/ignite/fuel-alert/internal/cycle"
)

const sampleHTML = `
<h2>Petrol prices in Sydney</h2>
<p><strong>Buying tip</strong> (updated on Friday):</p>
<ul>
<li>prices appear to be around the <strong>lowest</strong> point of the cycle</li>
<li>now is a good time for motorists to <strong>buy</strong> petrol.</li>
</ul>
<p>This chart shows daily average regular unleaded petrol prices in Sydney over the past 45 days.</p>
<h2>Petrol prices in Perth</h2>
<p><strong>Buying tip</strong> (updated on Friday):</p>
<ul>
<li>prices are decreasing and may decrease further</li>
<li>motorists looking to buy petrol can shop around for the <strong>lowest</strong> prices.</li>
</ul>
<p>This chart shows daily average regular unleaded petrol prices in Perth over the past 45 days.</p>
`

func TestExtractTips(t *testing.T) {
	tips := ExtractTips(sampleHTML, []string{"sydney", "perth", "melbourne"})

	sydney := tips["sydney"]
	if sydney == "" {
		t.Fatal("no tip extracted for sydney")
	}
	if got := cycle.Classify(sydney); got != cycle.PhaseBuy {
		t.Errorf("sydney tip %q classified %v, want BUY", sydney, got)
	}

	perth := tips["perth"]
	if perth == "" {
		t.Fatal("no tip extracted for perth")
	}
	if got := cycle.Classify(perth); got != cycle.PhaseWait {
		t.Errorf("perth tip %q classified %v, want WAIT", perth, got)
	}

	// Missing section maps to empty string, which classifies WAIT
	if tips["melbourne"] != "" {
		t.Errorf("melbourne tip = %q, want empty", tips["melbourne"])
	}
	if got := cycle.Classify(tips["melbourne"]); got != cycle.PhaseWait {
		t.Errorf("empty tip classified %v, want WAIT", got)
	}
}

func TestExtractTipsStripsMarkup(t *testing.T) {
	tips := ExtractTips(sampleHTML, []string{"sydney"})
	tip := tips["sydney"]

	for _, forbidden := range []string{"<", ">", "\n"} {
		if containsAny(tip, forbidden) {
			t.Errorf("tip still contains %q: %q", forbidden, tip)
		}
	}
}

func containsAny(s, chars string) bool {
	for _, c := range chars {
		for _, r := range s {
			if r == c {
				return true
			}
		}
	}
	return false
}

func TestExtractTipsEmptyPage(t *testing.T) {
	tips := ExtractTips("", []string{"sydney"})
	if tips["sydney"] != "" {
		t.Errorf("tip from empty page = %q, want empty", tips["sydney"])
	}
}
