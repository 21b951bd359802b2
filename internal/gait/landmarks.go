// Package gait converts per-frame anatomical landmark streams into discrete
// step events and derived spatiotemporal gait metrics. The engine is a pure
// batch transform: one immutable recording in, one set of metrics out, with
// no state retained between analyses.
package gait

import "math"

// Landmark identifies one anatomical point reported by the pose-estimation
// collaborator. Coordinates are normalized to the frame dimensions so the
// engine is independent of camera resolution.
type Landmark string

const (
	Nose          Landmark = "nose"
	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftHip       Landmark = "left_hip"
	RightHip      Landmark = "right_hip"
	LeftKnee      Landmark = "left_knee"
	RightKnee     Landmark = "right_knee"
	LeftAnkle     Landmark = "left_ankle"
	RightAnkle    Landmark = "right_ankle"
	LeftHeel      Landmark = "left_heel"
	RightHeel     Landmark = "right_heel"
)

// Point is a normalized landmark position with detection confidence.
type Point struct {
	X          float64 `json:"x"`          // [0,1], fraction of frame width
	Y          float64 `json:"y"`          // [0,1], fraction of frame height, 0 = top
	Visibility float64 `json:"visibility"` // [0,1] detector confidence
}

// Frame is a single pose sample at a known timestamp.
type Frame struct {
	Index         int                `json:"index"`
	TimestampSecs float64            `json:"t"`
	Landmarks     map[Landmark]Point `json:"landmarks"`
}

// Recording is the immutable input to one analysis pass.
type Recording struct {
	Frames          []Frame `json:"frames"`
	SubjectHeightCm float64 `json:"subject_height_cm"`
	DurationSecs    float64 `json:"duration_secs"`
}

// Distance returns the Euclidean distance between two points in normalized
// frame units.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Track extracts the time series of a single landmark across frames,
// substituting the last valid measurement wherever visibility falls below
// minVisibility. Frames before the first valid measurement yield the zero
// point. The output always has one entry per frame so the sample cadence is
// preserved through occlusions.
//
// The carry-forward is an explicit scan with an optional last-valid state
// rather than dropping frames: a gap of occluded frames produces a plateaued
// signal segment, never a discontinuity.
func Track(frames []Frame, lm Landmark, minVisibility float64) []Point {
	out := make([]Point, len(frames))
	var last Point
	var seen bool
	for i, f := range frames {
		p, ok := f.Landmarks[lm]
		if ok && p.Visibility >= minVisibility {
			last = p
			seen = true
		}
		if seen {
			out[i] = last
		}
		// before the first valid sample out[i] stays the zero point
	}
	return out
}
