package gait

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SpectralEstimate is the frequency-domain view of a recording.
type SpectralEstimate struct {
	DominantFreqHz float64
	PredictedSteps int
}

// EstimateSteps evaluates the discrete Fourier transform of the unsmoothed
// normalized signal directly at each frequency in the configured cadence
// band and predicts the step count from the dominant bin. Only the
// physiologically plausible band (0.5–4 Hz by default) is scanned: this is a
// deliberate accuracy choice, not a missing FFT optimisation, since bins
// outside the human cadence band carry no gait information and a full
// transform would only add noise candidates.
//
// The signal mean is removed before evaluation so the DC component cannot
// leak into the low end of the band. Bin magnitudes use the actual sample
// timestamps, which makes the scan robust to frame-rate jitter.
func EstimateSteps(sig Signal, durationSecs float64, cfg Config) SpectralEstimate {
	if len(sig) < 2 || durationSecs <= 0 {
		return SpectralEstimate{}
	}

	values := sig.Values()
	mean := floats.Sum(values) / float64(len(values))

	var best SpectralEstimate
	var bestMag float64
	for f := cfg.BandMinHz; f <= cfg.BandMaxHz+cfg.BandStepHz/2; f += cfg.BandStepHz {
		var re, im float64
		for i, s := range sig {
			phase := 2 * math.Pi * f * s.TimeSecs
			v := values[i] - mean
			re += v * math.Cos(phase)
			im -= v * math.Sin(phase)
		}
		if mag := math.Hypot(re, im); mag > bestMag {
			bestMag = mag
			best.DominantFreqHz = f
		}
	}

	best.PredictedSteps = int(math.Round(best.DominantFreqHz * durationSecs))
	return best
}

// DisambiguateStride resolves the stride-vs-step ambiguity of the separation
// signal. The signal normally cycles twice per gait cycle so the dominant
// bin tracks step frequency, but asymmetric or pathological gait can push
// the dominant bin down to stride frequency (half cadence). When the implied
// cadence sits in the stride band and the time-domain detector saw
// substantially more peaks than the prediction, the prediction is doubled.
//
// The band bounds and ratio were calibrated against pathological footage;
// they are carried in Config and must not be adjusted without new
// calibration data.
func DisambiguateStride(est SpectralEstimate, peakCount int, durationSecs float64, cfg Config) SpectralEstimate {
	if durationSecs <= 0 {
		return est
	}
	impliedCadence := float64(est.PredictedSteps) / (durationSecs / 60)
	if impliedCadence >= cfg.StrideCadenceMin && impliedCadence < cfg.StrideCadenceMax &&
		float64(peakCount) > cfg.StridePeakRatio*float64(est.PredictedSteps) {
		est.PredictedSteps *= 2
		est.DominantFreqHz *= 2
	}
	return est
}
