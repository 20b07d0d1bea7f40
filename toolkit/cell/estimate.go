package cell

const (
	defaultSignalStrength = -80
	defaultRange          = 1000
)

// Estimate returns a heuristic download speed in Mbps derived from the tower's
// reported signal strength, coverage range and radio technology. It is a rough
// guess, not a measurement.
//
// A signal strength of 0 means the provider has no reading and is treated like
// a missing value. Values that are not integers are treated as missing too.
func Estimate(r Record) float64 {
	signal, ok := r.SignalStrength.int()
	if !ok || signal == 0 {
		signal = defaultSignalStrength
	}
	rng, ok := r.Range.int()
	if !ok {
		rng = defaultRange
	}

	var speed float64
	switch {
	case signal > -70:
		speed = 50
	case signal > -80:
		speed = 25
	default:
		speed = 6.5
	}

	switch {
	case rng > 1000:
		speed *= 0.8
	case rng > 500:
		speed *= 0.9
	}

	radio, _ := r.Radio.Get()
	switch radio {
	case "LTE":
		speed *= 1.5
	case "GSM":
		speed *= 0.8
	}

	return speed
}
