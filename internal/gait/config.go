package gait

// Config holds the tuning constants for one detector instance. The defaults
// were calibrated against pathological reference footage; treat them as
// configuration to be overridden together, not individually corrected.
type Config struct {
	Label string // engine identifier carried into tagged results

	// Source landmarks for the motion signal
	SourceLeft  Landmark
	SourceRight Landmark

	// Ingest
	MinVisibility      float64 // below this, carry forward the last valid point
	MinHeightProxy     float64 // discard height-scale frames below this span
	ShoulderWidthFloor float64 // below this, divisor is replaced by 1
	MaxRecordingSecs   float64 // recordings longer than this are rejected

	// Time-domain detector
	SmoothingWindow    int     // trailing moving-average window, samples
	ThresholdFloor     float64 // lower bound for the adaptive threshold
	MinPeakSpacingSecs float64 // minimum time between accepted peaks

	// Frequency-domain estimator
	BandMinHz  float64
	BandMaxHz  float64
	BandStepHz float64

	// Stride/step disambiguation
	StrideCadenceMin float64 // steps/min, inclusive
	StrideCadenceMax float64 // steps/min, exclusive
	StridePeakRatio  float64 // peak count must exceed ratio × prediction

	// Consensus
	ConsensusTolerance float64 // relative discrepancy trusted to peaks
	ConsensusMinFFT    int     // fft count must exceed this to override

	// Spatial metrics
	DoubleSupportTolerance float64 // |yL − yR| gate for double support
	PerspectiveCorrection  float64 // fixed horizontal foreshortening factor
	BOSMinCm               float64 // implausibly narrow stance, discarded
	BOSMaxCm               float64 // implausibly wide stance, discarded
	BOSPercentile          float64 // aggregate percentile of valid widths
	HeelFloorPercentile    float64 // floor level percentile of raw heel Y
	HeelLiftNoiseFloor     float64 // lifts below this are noise, discarded
}

// DefaultConfig returns the primary engine tuning: ankle-separation signal
// with a short smoothing window.
func DefaultConfig() Config {
	return Config{
		Label:       "ankle",
		SourceLeft:  LeftAnkle,
		SourceRight: RightAnkle,

		MinVisibility:      0.5,
		MinHeightProxy:     0.2,
		ShoulderWidthFloor: 0.01,
		MaxRecordingSecs:   180,

		SmoothingWindow:    3,
		ThresholdFloor:     0.15,
		MinPeakSpacingSecs: 0.22,

		BandMinHz:  0.5,
		BandMaxHz:  4.0,
		BandStepHz: 0.05,

		StrideCadenceMin: 25,
		StrideCadenceMax: 65,
		StridePeakRatio:  1.5,

		ConsensusTolerance: 0.20,
		ConsensusMinFFT:    5,

		DoubleSupportTolerance: 0.03,
		PerspectiveCorrection:  0.85,
		BOSMinCm:               2,
		BOSMaxCm:               45,
		BOSPercentile:          0.25,
		HeelFloorPercentile:    0.90,
		HeelLiftNoiseFloor:     0.01,
	}
}

// ShuffleConfig returns the secondary engine tuning: heel-separation signal
// with a wider smoothing window, a lower threshold floor, and wider peak
// spacing. The heel signal keeps amplitude during low-clearance shuffling
// walks where the ankle signal flattens out, which is why two instances are
// run and reconciled.
func ShuffleConfig() Config {
	cfg := DefaultConfig()
	cfg.Label = "heel"
	cfg.SourceLeft = LeftHeel
	cfg.SourceRight = RightHeel
	cfg.SmoothingWindow = 5
	cfg.ThresholdFloor = 0.12
	cfg.MinPeakSpacingSecs = 0.25
	return cfg
}
