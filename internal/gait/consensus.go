package gait

import "math"

// Consensus reconciles the time-domain peak count with the frequency-domain
// prediction. When the two agree within the configured tolerance the peak
// count wins because of its temporal precision. On a larger discrepancy the
// higher frequency-domain count is adopted only when it is itself credible
// (above ConsensusMinFFT): missed low-amplitude shuffling steps are the
// common failure, whereas rhythmic over-detection by the peak detector is
// judged less likely than genuine steps, so a peak count above the
// prediction is retained.
func Consensus(peakCount, fftCount int, cfg Config) int {
	if peakCount == 0 && fftCount == 0 {
		return 0
	}
	avg := (float64(peakCount) + float64(fftCount)) / 2
	discrepancy := math.Abs(float64(peakCount)-float64(fftCount)) / avg
	if discrepancy <= cfg.ConsensusTolerance {
		return peakCount
	}
	if fftCount > cfg.ConsensusMinFFT && peakCount < fftCount {
		return fftCount
	}
	return peakCount
}

// CadencePerMin converts a final step count over a recording duration into
// whole steps per minute. Zero duration yields zero cadence, never a
// division error.
func CadencePerMin(stepCount int, durationSecs float64) int {
	if durationSecs <= 0 {
		return 0
	}
	return int(math.Round(float64(stepCount) / (durationSecs / 60)))
}
