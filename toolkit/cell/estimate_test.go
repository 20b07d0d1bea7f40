package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(signal, rng, radio *string) Record {
	var r Record
	if signal != nil {
		r.SignalStrength = Present(*signal)
	}
	if rng != nil {
		r.Range = Present(*rng)
	}
	if radio != nil {
		r.Radio = Present(*radio)
	}
	return r
}

func s(v string) *string { return &v }

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want float64
	}{
		{"strong lte short range", record(s("-65"), s("200"), s("LTE")), 75.0},
		{"medium gsm long range", record(s("-75"), s("1500"), s("GSM")), 16.0},
		{"weak unknown radio mid range", record(s("-90"), s("600"), nil), 5.85},
		{"signal -70 is middle tier", record(s("-70"), s("100"), s("UMTS")), 25},
		{"signal -69 is top tier", record(s("-69"), s("100"), s("UMTS")), 50},
		{"signal -80 is bottom tier", record(s("-80"), s("100"), s("UMTS")), 6.5},
		{"signal -79 is middle tier", record(s("-79"), s("100"), s("UMTS")), 25},
		{"range 1000 is mid penalty", record(s("-60"), s("1000"), nil), 45},
		{"range 1001 is long penalty", record(s("-60"), s("1001"), nil), 40},
		{"range 500 has no penalty", record(s("-60"), s("500"), nil), 50},
		{"range 501 is mid penalty", record(s("-60"), s("501"), nil), 45},
		{"reported zero signal is remapped", record(s("0"), s("100"), s("LTE")), 9.75},
		{"missing signal defaults to -80", record(nil, s("100"), nil), 6.5},
		{"garbage signal defaults to -80", record(s("strong"), s("100"), nil), 6.5},
		{"missing range defaults to 1000", record(s("-60"), nil, nil), 45},
		{"garbage range defaults to 1000", record(s("-60"), s("1.5km"), nil), 45},
		{"radio is case sensitive", record(s("-60"), s("100"), s("lte")), 50},
		{"empty record", Record{}, 6.5 * 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Estimate(tt.rec), 1e-9)
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	r := record(s("-77"), s("2500"), s("LTE"))
	first := Estimate(r)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Estimate(r))
	}
}
