package gait

import (
	"fmt"
	"sync"
)

// Metrics is the spatiotemporal output of one analysis.
type Metrics struct {
	StepCount             int     `json:"step_count"`
	CadencePerMin         int     `json:"cadence_per_min"`
	MeanStepIntervalSecs  float64 `json:"mean_step_interval_secs"`
	StepTimeVariabilityMs float64 `json:"step_time_variability_ms"`
	AvgBaseOfSupportCm    float64 `json:"avg_base_of_support_cm"`
	AvgHeelLiftCm         float64 `json:"avg_heel_lift_cm"`
}

// Result is the tagged output of one detector instance. Engine identifies
// which tuning produced it; the intermediate fields are retained for
// diagnostics, charting, and the reconciliation policy.
type Result struct {
	Engine  string  `json:"engine"`
	Metrics Metrics `json:"metrics"`

	Signal         Signal           `json:"-"`
	Smoothed       Signal           `json:"-"`
	Threshold      float64          `json:"threshold"`
	Peaks          []Peak           `json:"peaks"`
	Spectral       SpectralEstimate `json:"spectral"`
	ConsensusSteps int              `json:"consensus_steps"`
}

// Analyze runs the full detection pipeline for a single engine tuning:
// normalize → threshold → {peak detection, spectral estimate} → consensus →
// timing, with the spatial extractor running independently off the raw
// landmarks. It is a pure function of (recording, config); identical inputs
// produce identical peak lists and metrics.
func Analyze(rec Recording, cfg Config) (Result, error) {
	if err := validateRecording(rec, cfg); err != nil {
		return Result{}, err
	}

	res := Result{Engine: cfg.Label}
	if len(rec.Frames) == 0 {
		// Degenerate input: defined-zero metrics, not an error.
		res.Metrics.StepTimeVariabilityMs = InsufficientVariabilityMs
		return res, nil
	}

	res.Signal = SeparationSignal(rec.Frames, cfg.SourceLeft, cfg.SourceRight, cfg)
	res.Threshold = AdaptiveThreshold(res.Signal, cfg.ThresholdFloor)
	res.Smoothed = SmoothSignal(res.Signal, cfg.SmoothingWindow)
	res.Peaks = DetectPeaks(res.Smoothed, res.Threshold, cfg.MinPeakSpacingSecs)

	est := EstimateSteps(res.Signal, rec.DurationSecs, cfg)
	res.Spectral = DisambiguateStride(est, len(res.Peaks), rec.DurationSecs, cfg)

	res.ConsensusSteps = Consensus(len(res.Peaks), res.Spectral.PredictedSteps, cfg)

	timing := ComputeTimingStats(res.Peaks, rec.DurationSecs, res.ConsensusSteps)
	res.Metrics = Metrics{
		StepCount:             res.ConsensusSteps,
		CadencePerMin:         CadencePerMin(res.ConsensusSteps, rec.DurationSecs),
		MeanStepIntervalSecs:  timing.MeanStepIntervalSecs,
		StepTimeVariabilityMs: timing.StepTimeVariabilityMs,
		AvgBaseOfSupportCm:    BaseOfSupportCm(rec.Frames, rec.SubjectHeightCm, cfg),
		AvgHeelLiftCm:         AverageHeelLiftCm(rec.Frames, rec.SubjectHeightCm, cfg),
	}
	return res, nil
}

// AnalyzeAll runs each configured detector instance over the same immutable
// recording and reconciles the tagged results. The instances are read-only
// over shared input and run concurrently without synchronisation; only their
// scalar outputs are combined at the join point.
func AnalyzeAll(rec Recording, cfgs ...Config) (Result, error) {
	if len(cfgs) == 0 {
		cfgs = []Config{DefaultConfig(), ShuffleConfig()}
	}

	results := make([]Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(i int, cfg Config) {
			defer wg.Done()
			results[i], errs[i] = Analyze(rec, cfg)
		}(i, cfg)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return Result{}, fmt.Errorf("engine %q: %w", cfgs[i].Label, err)
		}
	}
	return ReconcileHighest(results), nil
}

// ReconcileHighest combines independently tuned engine results by adopting
// the one with the higher step count. The asymmetric tie-break is policy,
// not an average: pathological gait detection under-counts far more often
// than it over-counts, so the engine that found more steps is presumed to
// have seen the low-amplitude ones the other missed. On equal counts the
// earlier (primary) engine wins.
func ReconcileHighest(results []Result) Result {
	if len(results) == 0 {
		return Result{}
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Metrics.StepCount > best.Metrics.StepCount {
			best = r
		}
	}
	return best
}

// validateRecording applies the typed-failure contract before any
// processing.
func validateRecording(rec Recording, cfg Config) error {
	if rec.SubjectHeightCm <= 0 {
		return fmt.Errorf("%w: got %.1f cm", ErrInvalidHeight, rec.SubjectHeightCm)
	}
	if cfg.MaxRecordingSecs > 0 && rec.DurationSecs > cfg.MaxRecordingSecs {
		return fmt.Errorf("%w: %.1fs > %.1fs", ErrRecordingTooLong, rec.DurationSecs, cfg.MaxRecordingSecs)
	}
	for i := 1; i < len(rec.Frames); i++ {
		if rec.Frames[i].TimestampSecs <= rec.Frames[i-1].TimestampSecs {
			return fmt.Errorf("%w: frame %d at %.4fs after %.4fs",
				ErrOutOfOrderFrames, i, rec.Frames[i].TimestampSecs, rec.Frames[i-1].TimestampSecs)
		}
	}
	return nil
}
