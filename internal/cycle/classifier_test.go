package cycle

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Phase
	}{
		{
			"sydney buy tip",
			"prices appear to be around the lowest point of the cycle now is a good time for motorists to buy petrol",
			PhaseBuy,
		},
		{
			"melbourne high point",
			"while the price cycle is around a high point we encourage motorists to use fuel price apps and websites to find lower priced retailers",
			PhaseWait,
		},
		{
			"perth decreasing dominates lowest",
			"prices are decreasing and may decrease further motorists looking to buy petrol can shop around for the lowest prices",
			PhaseWait,
		},
		{"empty text", "", PhaseWait},
		{"unrelated text", "the quick brown fox", PhaseWait},
		{"at the lowest", "prices are at the lowest they have been", PhaseBuy},
		{"good time to buy", "it is a good time to buy", PhaseBuy},
		{"increasing", "prices are increasing sharply", PhaseWait},
		{"mixed case", "NOW IS A GOOD TIME for motorists to Buy", PhaseBuy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Any text carrying both a WAIT phrase and a BUY phrase must classify
// as WAIT, regardless of phrase order.
func TestClassifyWaitPriority(t *testing.T) {
	texts := []string{
		"now is a good time to buy but prices may decrease further",
		"prices are decreasing although around the lowest point",
		"at the lowest point yet still increasing in some areas",
	}
	for _, text := range texts {
		if got := Classify(text); got != PhaseWait {
			t.Errorf("Classify(%q) = %v, want WAIT", text, got)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "prices appear to be around the lowest point of the cycle"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("Classify not deterministic: %v then %v", first, got)
		}
	}
}

func TestClassifyNeverReturnsUnknown(t *testing.T) {
	for _, text := range []string{"", "gibberish", "lowest point", "decreasing"} {
		if got := Classify(text); got == PhaseUnknown {
			t.Errorf("Classify(%q) produced the UNKNOWN sentinel", text)
		}
	}
}
