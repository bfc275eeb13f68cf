package calculate

// SupportResistance returns the lowest low and highest high of the trailing
// period. With fewer bars than the period the whole series is used; empty
// input returns zeros.
func SupportResistance(highs, lows []float64, period int) (support, resistance float64) {
	if len(highs) == 0 || len(lows) == 0 {
		return 0, 0
	}

	startH := len(highs) - period
	if startH < 0 {
		startH = 0
	}
	startL := len(lows) - period
	if startL < 0 {
		startL = 0
	}

	resistance = highs[startH]
	for _, h := range highs[startH+1:] {
		if h > resistance {
			resistance = h
		}
	}

	support = lows[startL]
	for _, l := range lows[startL+1:] {
		if l < support {
			support = l
		}
	}
	return support, resistance
}
