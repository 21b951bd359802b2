package gait

import (
	"math"
	"testing"
)

// rectifiedSine builds the canonical synthetic gait signal: |sin(π·f·t)|
// repeats f times per second, which is the step frequency the estimator
// should recover.
func rectifiedSine(stepHz, durationSecs, fps float64) Signal {
	n := int(durationSecs * fps)
	sig := make(Signal, n)
	for i := 0; i < n; i++ {
		t := float64(i) / fps
		sig[i] = Sample{TimeSecs: t, Value: math.Abs(math.Sin(math.Pi * stepHz * t))}
	}
	return sig
}

func TestEstimateStepsRecoversDominantFrequency(t *testing.T) {
	cfg := DefaultConfig()
	const duration = 20.0

	for _, stepHz := range []float64{0.5, 1.0, 1.65, 2.0, 3.0, 4.0} {
		sig := rectifiedSine(stepHz, duration, 30)
		est := EstimateSteps(sig, duration, cfg)

		if math.Abs(est.DominantFreqHz-stepHz) > cfg.BandStepHz+1e-9 {
			t.Errorf("stepHz=%v: dominant frequency %v, want within %v",
				stepHz, est.DominantFreqHz, cfg.BandStepHz)
		}
		want := int(math.Round(stepHz * duration))
		if diff := est.PredictedSteps - want; diff < -1 || diff > 1 {
			t.Errorf("stepHz=%v: predicted %d steps, want %d±1", stepHz, est.PredictedSteps, want)
		}
	}
}

func TestEstimateStepsDegenerate(t *testing.T) {
	if est := EstimateSteps(nil, 10, DefaultConfig()); est.PredictedSteps != 0 {
		t.Errorf("empty signal: expected zero prediction, got %+v", est)
	}
	if est := EstimateSteps(rectifiedSine(2, 10, 30), 0, DefaultConfig()); est.PredictedSteps != 0 {
		t.Errorf("zero duration: expected zero prediction, got %+v", est)
	}
}

func TestDisambiguateStrideDoubles(t *testing.T) {
	cfg := DefaultConfig()
	const duration = 20.0 // implied cadence of 10 steps = 30/min, in stride band

	est := SpectralEstimate{DominantFreqHz: 0.5, PredictedSteps: 10}
	got := DisambiguateStride(est, 16, duration, cfg) // 16 > 1.5×10
	if got.PredictedSteps != 20 {
		t.Errorf("expected doubled prediction 20, got %d", got.PredictedSteps)
	}
	if math.Abs(got.DominantFreqHz-1.0) > 1e-9 {
		t.Errorf("expected doubled frequency 1.0, got %v", got.DominantFreqHz)
	}
}

func TestDisambiguateStrideHolds(t *testing.T) {
	cfg := DefaultConfig()
	const duration = 20.0

	// Peak count does not exceed the ratio: no doubling.
	est := SpectralEstimate{DominantFreqHz: 0.5, PredictedSteps: 10}
	if got := DisambiguateStride(est, 12, duration, cfg); got.PredictedSteps != 10 {
		t.Errorf("ratio not met: expected 10, got %d", got.PredictedSteps)
	}

	// Implied cadence above the stride band: no doubling even with many peaks.
	est = SpectralEstimate{DominantFreqHz: 1.5, PredictedSteps: 30} // 90/min
	if got := DisambiguateStride(est, 60, duration, cfg); got.PredictedSteps != 30 {
		t.Errorf("cadence out of band: expected 30, got %d", got.PredictedSteps)
	}

	// Boundary: 65/min is outside the half-open band.
	est = SpectralEstimate{DominantFreqHz: 65.0 / 60, PredictedSteps: 13} // 13 steps / 12s
	if got := DisambiguateStride(est, 30, 12, cfg); got.PredictedSteps != 13 {
		t.Errorf("cadence at upper bound: expected 13, got %d", got.PredictedSteps)
	}
}

func TestConsensusAdoptsHigherFFT(t *testing.T) {
	cfg := DefaultConfig()
	// peaks=10, fft=14: discrepancy 33%, fft>5, peaks<fft ⇒ adopt fft.
	if got := Consensus(10, 14, cfg); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
}

func TestConsensusRetainsHigherPeaks(t *testing.T) {
	cfg := DefaultConfig()
	// peaks=14, fft=10: same discrepancy magnitude but peaks>fft ⇒ keep peaks.
	if got := Consensus(14, 10, cfg); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
}

func TestConsensusWithinTolerance(t *testing.T) {
	cfg := DefaultConfig()
	// 10 vs 11: discrepancy ~9.5%, trust the temporally precise peak count.
	if got := Consensus(10, 11, cfg); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

func TestConsensusLowFFTNotTrusted(t *testing.T) {
	cfg := DefaultConfig()
	// fft=5 is not above the credibility minimum; peaks retained.
	if got := Consensus(2, 5, cfg); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestConsensusZero(t *testing.T) {
	if got := Consensus(0, 0, DefaultConfig()); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCadencePerMin(t *testing.T) {
	if got := CadencePerMin(20, 60); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
	if got := CadencePerMin(15, 30); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}
	if got := CadencePerMin(10, 0); got != 0 {
		t.Errorf("zero duration: expected 0, got %d", got)
	}
}
