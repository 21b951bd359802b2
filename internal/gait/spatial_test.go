package gait

import (
	"math"
	"sort"
	"testing"
)

// stanceFrame builds a double-support frame with the heels separated by dx
// and a nose-to-heel span of 0.68 normalized units.
func stanceFrame(t, dx float64) Frame {
	return Frame{
		TimestampSecs: t,
		Landmarks: map[Landmark]Point{
			Nose:      {X: 0.5, Y: 0.20, Visibility: 1},
			LeftHeel:  {X: 0.5 - dx/2, Y: 0.88, Visibility: 1},
			RightHeel: {X: 0.5 + dx/2, Y: 0.88, Visibility: 1},
		},
	}
}

func TestBaseOfSupportPercentileAggregation(t *testing.T) {
	cfg := DefaultConfig()
	const heightCm = 170.0
	const proxy = 0.68

	separations := []float64{0.05, 0.09, 0.06, 0.12, 0.07, 0.10, 0.08, 0.11}
	frames := make([]Frame, len(separations))
	for i, dx := range separations {
		frames[i] = stanceFrame(float64(i)*0.1, dx)
	}

	got := BaseOfSupportCm(frames, heightCm, cfg)

	// Reported value must equal the element at floor(0.25·N) of the
	// ascending-sorted valid widths.
	widths := make([]float64, len(separations))
	for i, dx := range separations {
		widths[i] = dx * (heightCm / proxy) * cfg.PerspectiveCorrection
	}
	sort.Float64s(widths)
	want := widths[int(0.25*float64(len(widths)))]

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BOS = %v, want %v (floor(0.25N) element)", got, want)
	}
}

func TestBaseOfSupportDoubleSupportGate(t *testing.T) {
	cfg := DefaultConfig()
	frames := []Frame{stanceFrame(0, 0.08)}
	// Lift one heel beyond the alignment tolerance: no candidate frames.
	lm := frames[0].Landmarks
	lm[LeftHeel] = Point{X: lm[LeftHeel].X, Y: 0.88 - 2*cfg.DoubleSupportTolerance, Visibility: 1}

	if got := BaseOfSupportCm(frames, 170, cfg); got != 0 {
		t.Errorf("single-support frame measured: got %v, want 0", got)
	}
}

func TestBaseOfSupportClampsImplausible(t *testing.T) {
	cfg := DefaultConfig()
	// dx 0.004 ⇒ ~0.85 cm (below minimum); dx 0.5 ⇒ ~106 cm (above maximum).
	frames := []Frame{stanceFrame(0, 0.004), stanceFrame(0.1, 0.5)}
	if got := BaseOfSupportCm(frames, 170, cfg); got != 0 {
		t.Errorf("implausible widths not discarded: got %v", got)
	}
}

func TestAverageHeelLift(t *testing.T) {
	cfg := DefaultConfig()
	rec := walkRecording(100, 20, 30)

	got := AverageHeelLiftCm(rec.Frames, rec.SubjectHeightCm, cfg)
	if got <= 0 {
		t.Fatalf("expected positive heel lift for a normal walk, got %v", got)
	}

	// Lift amplitude 0.03 normalized against a scale of 170/0.68 ≈ 250 cm:
	// the mean reported lift must land in a plausible clearance range.
	if got < 2 || got > 10 {
		t.Errorf("heel lift %v cm outside plausible range for the synthetic walk", got)
	}
}

func TestAverageHeelLiftNoiseFloor(t *testing.T) {
	cfg := DefaultConfig()
	// Magnetic gait: sub-threshold heel oscillation must report zero lift.
	n := 200
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		t := float64(i) / 30
		wobble := 0.002 * math.Sin(2*math.Pi*1.5*t)
		frames[i] = Frame{
			TimestampSecs: t,
			Landmarks: map[Landmark]Point{
				Nose:      {X: 0.5, Y: 0.20, Visibility: 1},
				LeftHeel:  {X: 0.45, Y: 0.88 - wobble, Visibility: 1},
				RightHeel: {X: 0.55, Y: 0.88 + wobble, Visibility: 1},
			},
		}
	}
	if got := AverageHeelLiftCm(frames, 170, cfg); got != 0 {
		t.Errorf("noise-floor lifts reported: got %v, want 0", got)
	}
}

func TestPercentileAt(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		p    float64
		want float64
	}{
		{0.25, 2}, // floor(0.25·4) = index 1
		{0.90, 4}, // floor(0.90·4) = index 3
		{0.0, 1},
		{1.0, 4}, // clamped to last element
	}
	for _, c := range cases {
		if got := percentileAt(sorted, c.p); got != c.want {
			t.Errorf("percentileAt(p=%v) = %v, want %v", c.p, got, c.want)
		}
	}
	if got := percentileAt(nil, 0.5); got != 0 {
		t.Errorf("empty slice: got %v, want 0", got)
	}
}

func TestComputeTimingStats(t *testing.T) {
	peaks := []Peak{{TimeSecs: 0}, {TimeSecs: 0.4}, {TimeSecs: 1.0}}
	stats := ComputeTimingStats(peaks, 10, 3)

	if math.Abs(stats.MeanStepIntervalSecs-0.5) > 1e-9 {
		t.Errorf("mean interval = %v, want 0.5", stats.MeanStepIntervalSecs)
	}
	// Intervals 0.4 and 0.6: population stddev 0.1 s = 100 ms.
	if math.Abs(stats.StepTimeVariabilityMs-100) > 1e-6 {
		t.Errorf("variability = %v ms, want 100", stats.StepTimeVariabilityMs)
	}
}

func TestComputeTimingStatsInsufficientPeaks(t *testing.T) {
	stats := ComputeTimingStats([]Peak{{TimeSecs: 1}}, 12, 6)
	if stats.MeanStepIntervalSecs != 2 {
		t.Errorf("fallback mean = %v, want duration/count = 2", stats.MeanStepIntervalSecs)
	}
	if stats.StepTimeVariabilityMs != InsufficientVariabilityMs {
		t.Errorf("variability = %v, want insufficient-data placeholder", stats.StepTimeVariabilityMs)
	}

	stats = ComputeTimingStats(nil, 12, 0)
	if stats.MeanStepIntervalSecs != 0 {
		t.Errorf("zero steps: mean = %v, want 0", stats.MeanStepIntervalSecs)
	}
}
