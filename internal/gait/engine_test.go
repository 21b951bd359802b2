package gait

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyzeCountsSteps(t *testing.T) {
	const cadence = 100.0
	const duration = 20.0
	rec := walkRecording(cadence, duration, 30)

	res, err := Analyze(rec, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	wantSteps := int(math.Round(cadence / 60 * duration)) // ~33
	if diff := res.Metrics.StepCount - wantSteps; diff < -2 || diff > 2 {
		t.Errorf("step count = %d, want %d±2", res.Metrics.StepCount, wantSteps)
	}
	if diff := float64(res.Metrics.CadencePerMin) - cadence; math.Abs(diff) > 6 {
		t.Errorf("cadence = %d, want ~%v", res.Metrics.CadencePerMin, cadence)
	}
	if res.Metrics.AvgBaseOfSupportCm <= 0 {
		t.Errorf("expected positive base of support, got %v", res.Metrics.AvgBaseOfSupportCm)
	}
	if res.Metrics.AvgHeelLiftCm <= 0 {
		t.Errorf("expected positive heel lift, got %v", res.Metrics.AvgHeelLiftCm)
	}
	if res.Metrics.MeanStepIntervalSecs <= 0 {
		t.Errorf("expected positive mean step interval, got %v", res.Metrics.MeanStepIntervalSecs)
	}
}

func TestAnalyzeConstantSignalZeroSteps(t *testing.T) {
	// A subject standing still for the whole recording: defined-zero
	// metrics, not NaN, not an error.
	n := 300
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = Frame{
			TimestampSecs: float64(i) / 30,
			Landmarks: map[Landmark]Point{
				Nose:          {X: 0.5, Y: 0.20, Visibility: 1},
				LeftShoulder:  {X: 0.42, Y: 0.30, Visibility: 1},
				RightShoulder: {X: 0.58, Y: 0.30, Visibility: 1},
				LeftAnkle:     {X: 0.48, Y: 0.85, Visibility: 1},
				RightAnkle:    {X: 0.52, Y: 0.85, Visibility: 1},
				LeftHeel:      {X: 0.48, Y: 0.88, Visibility: 1},
				RightHeel:     {X: 0.52, Y: 0.88, Visibility: 1},
			},
		}
	}
	rec := Recording{Frames: frames, SubjectHeightCm: 170, DurationSecs: 10}

	res, err := Analyze(rec, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Metrics.StepCount != 0 {
		t.Errorf("step count = %d, want 0", res.Metrics.StepCount)
	}
	if res.Metrics.CadencePerMin != 0 {
		t.Errorf("cadence = %d, want 0", res.Metrics.CadencePerMin)
	}
	if math.IsNaN(res.Metrics.MeanStepIntervalSecs) || math.IsInf(res.Metrics.MeanStepIntervalSecs, 0) {
		t.Errorf("mean step interval is not finite: %v", res.Metrics.MeanStepIntervalSecs)
	}
}

func TestAnalyzeEmptyRecording(t *testing.T) {
	rec := Recording{SubjectHeightCm: 170, DurationSecs: 0}
	res, err := Analyze(rec, DefaultConfig())
	if err != nil {
		t.Fatalf("empty recording must not error, got %v", err)
	}
	if res.Metrics.StepCount != 0 {
		t.Errorf("step count = %d, want 0", res.Metrics.StepCount)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	rec := walkRecording(95, 15, 30)
	cfg := DefaultConfig()

	a, err := Analyze(rec, cfg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := Analyze(rec, cfg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if diff := cmp.Diff(a.Peaks, b.Peaks); diff != "" {
		t.Errorf("peak lists differ between identical runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(a.Metrics, b.Metrics); diff != "" {
		t.Errorf("metrics differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestAnalyzeOcclusionPlateau(t *testing.T) {
	rec := walkRecording(100, 10, 30)
	// Occlude both ankles for a one-second window mid-walk.
	for i := 90; i < 120; i++ {
		lm := rec.Frames[i].Landmarks
		for _, name := range []Landmark{LeftAnkle, RightAnkle} {
			p := lm[name]
			lm[name] = Point{X: p.X, Y: p.Y, Visibility: 0.1}
		}
	}

	res, err := Analyze(rec, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Signal) != len(rec.Frames) {
		t.Fatalf("occluded frames dropped: %d samples for %d frames", len(res.Signal), len(rec.Frames))
	}
	// The occluded window must be a plateau: constant value, no discontinuity.
	for i := 91; i < 120; i++ {
		if res.Signal[i].Value != res.Signal[90].Value {
			t.Errorf("sample %d: occluded segment not plateaued (%v vs %v)",
				i, res.Signal[i].Value, res.Signal[90].Value)
		}
	}
}

func TestAnalyzeTypedFailures(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Analyze(Recording{SubjectHeightCm: 0, DurationSecs: 10}, cfg)
	if !errors.Is(err, ErrInvalidHeight) {
		t.Errorf("expected ErrInvalidHeight, got %v", err)
	}

	_, err = Analyze(Recording{SubjectHeightCm: 170, DurationSecs: 400}, cfg)
	if !errors.Is(err, ErrRecordingTooLong) {
		t.Errorf("expected ErrRecordingTooLong, got %v", err)
	}

	frames := []Frame{{TimestampSecs: 1}, {TimestampSecs: 0.5}}
	_, err = Analyze(Recording{Frames: frames, SubjectHeightCm: 170, DurationSecs: 2}, cfg)
	if !errors.Is(err, ErrOutOfOrderFrames) {
		t.Errorf("expected ErrOutOfOrderFrames, got %v", err)
	}
}

func TestReconcileHighest(t *testing.T) {
	low := Result{Engine: "ankle", Metrics: Metrics{StepCount: 10}}
	high := Result{Engine: "heel", Metrics: Metrics{StepCount: 14}}

	if got := ReconcileHighest([]Result{low, high}); got.Engine != "heel" {
		t.Errorf("expected heel engine adopted, got %q", got.Engine)
	}
	// Order independent.
	if got := ReconcileHighest([]Result{high, low}); got.Engine != "heel" {
		t.Errorf("expected heel engine adopted, got %q", got.Engine)
	}
	// Equal counts: primary wins.
	tied := Result{Engine: "heel", Metrics: Metrics{StepCount: 10}}
	if got := ReconcileHighest([]Result{low, tied}); got.Engine != "ankle" {
		t.Errorf("expected primary engine on tie, got %q", got.Engine)
	}
	if got := ReconcileHighest(nil); got.Engine != "" {
		t.Errorf("expected zero result for no engines, got %+v", got)
	}
}

func TestAnalyzeAll(t *testing.T) {
	rec := walkRecording(100, 15, 30)

	res, err := AnalyzeAll(rec)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if res.Metrics.StepCount == 0 {
		t.Error("expected steps from the reconciled result")
	}

	// The reconciled count is never below either single engine's count.
	for _, cfg := range []Config{DefaultConfig(), ShuffleConfig()} {
		single, err := Analyze(rec, cfg)
		if err != nil {
			t.Fatalf("Analyze(%s): %v", cfg.Label, err)
		}
		if single.Metrics.StepCount > res.Metrics.StepCount {
			t.Errorf("engine %q counted %d, reconciled only %d",
				cfg.Label, single.Metrics.StepCount, res.Metrics.StepCount)
		}
	}
}

func TestAnalyzeAllPropagatesTypedErrors(t *testing.T) {
	_, err := AnalyzeAll(Recording{SubjectHeightCm: -1, DurationSecs: 5})
	if !errors.Is(err, ErrInvalidHeight) {
		t.Errorf("expected ErrInvalidHeight through AnalyzeAll, got %v", err)
	}
}
