package gait

import "math"

// InsufficientVariabilityMs is reported as the step-time variability when
// fewer than two peaks were detected. It is deliberately distinct from a
// true zero variance, which would claim a perfectly regular walk.
const InsufficientVariabilityMs = -1

// TimingStats are the inter-step interval statistics of a recording.
type TimingStats struct {
	MeanStepIntervalSecs  float64
	StepTimeVariabilityMs float64
}

// ComputeTimingStats derives interval statistics from the time-domain peak
// list. The raw peak list is used rather than the consensus-adjusted count:
// consensus can adopt the frequency-domain total, but only actually observed
// peaks carry timestamps.
//
// With fewer than two peaks the mean interval falls back to
// duration/finalStepCount and the variability is reported as
// InsufficientVariabilityMs. The variability is the population standard
// deviation of the intervals in milliseconds; the interval list is the whole
// walk, not a sample from it.
func ComputeTimingStats(peaks []Peak, durationSecs float64, finalStepCount int) TimingStats {
	if len(peaks) < 2 {
		stats := TimingStats{StepTimeVariabilityMs: InsufficientVariabilityMs}
		if finalStepCount > 0 {
			stats.MeanStepIntervalSecs = durationSecs / float64(finalStepCount)
		}
		return stats
	}

	intervals := make([]float64, len(peaks)-1)
	var sum float64
	for i := 1; i < len(peaks); i++ {
		intervals[i-1] = peaks[i].TimeSecs - peaks[i-1].TimeSecs
		sum += intervals[i-1]
	}
	mean := sum / float64(len(intervals))

	var sq float64
	for _, iv := range intervals {
		d := iv - mean
		sq += d * d
	}
	popStdDev := math.Sqrt(sq / float64(len(intervals)))

	return TimingStats{
		MeanStepIntervalSecs:  mean,
		StepTimeVariabilityMs: popStdDev * 1000,
	}
}
