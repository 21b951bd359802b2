package gait

// Peak is one accepted step event in the time domain.
type Peak struct {
	TimeSecs float64
	Value    float64
}

// AdaptiveThreshold derives the motion threshold from the walk's own signal
// statistics: the mean of the normalized signal, floored. A fixed absolute
// threshold fails across camera distances and gait pathologies; anchoring to
// the mean adapts the amplitude sensitivity while the floor suppresses noise
// during near-zero motion such as standing.
func AdaptiveThreshold(sig Signal, floor float64) float64 {
	m := sig.Mean()
	if m < floor {
		return floor
	}
	return m
}

// SmoothSignal applies a trailing moving average of the given window. The
// window shrinks at the start of the sequence; there is no wraparound or
// padding, so the output has exactly one sample per input sample and the
// timestamps are unchanged.
func SmoothSignal(sig Signal, window int) Signal {
	if window <= 1 || len(sig) == 0 {
		out := make(Signal, len(sig))
		copy(out, sig)
		return out
	}
	out := make(Signal, len(sig))
	var sum float64
	for i, s := range sig {
		sum += s.Value
		n := window
		if i+1 < window {
			n = i + 1
		} else if i >= window {
			sum -= sig[i-window].Value
		}
		out[i] = Sample{TimeSecs: s.TimeSecs, Value: sum / float64(n)}
	}
	return out
}

// DetectPeaks finds strict local maxima of the smoothed signal that exceed
// the threshold, then enforces the minimum temporal spacing between accepted
// peaks. On a spacing violation the later candidate is rejected and the
// earliest kept, so the accepted list always satisfies
// time[i+1] − time[i] >= minSpacingSecs.
func DetectPeaks(sig Signal, threshold, minSpacingSecs float64) []Peak {
	var peaks []Peak
	for i := 1; i < len(sig)-1; i++ {
		v := sig[i].Value
		if v <= threshold {
			continue
		}
		if !(v > sig[i-1].Value && v > sig[i+1].Value) {
			continue
		}
		if n := len(peaks); n > 0 && sig[i].TimeSecs-peaks[n-1].TimeSecs < minSpacingSecs {
			continue
		}
		peaks = append(peaks, Peak{TimeSecs: sig[i].TimeSecs, Value: v})
	}
	return peaks
}
