package gait

import (
	"gonum.org/v1/gonum/stat"
)

// Sample is one scalar observation of the motion signal.
type Sample struct {
	TimeSecs float64
	Value    float64
}

// Signal is an ordered scalar series with one entry per processed frame.
// Occluded frames carry the previous value forward, so a Signal is never
// shorter than its source frame sequence.
type Signal []Sample

// Values returns the raw scalar sequence of the signal.
func (s Signal) Values() []float64 {
	v := make([]float64, len(s))
	for i, smp := range s {
		v[i] = smp.Value
	}
	return v
}

// Duration returns the time span covered by the signal, zero for fewer than
// two samples.
func (s Signal) Duration() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].TimeSecs - s[0].TimeSecs
}

// Mean returns the arithmetic mean of the signal values, zero for an empty
// signal.
func (s Signal) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s.Values(), nil)
}

// SeparationSignal builds the scale-invariant motion signal: the Euclidean
// separation of the left/right source landmarks divided per frame by the
// shoulder width. Dividing by the subject's own shoulder width removes the
// unknown camera distance from the signal amplitude, so a walk filmed from
// 2 m and the same walk filmed from 6 m produce the same series.
//
// Shoulder width is floored at cfg.ShoulderWidthFloor; below the floor the
// divisor is replaced by 1 to prevent division blow-up on frames where the
// shoulders collapse to a near-point (extreme foreshortening or detector
// failure).
func SeparationSignal(frames []Frame, left, right Landmark, cfg Config) Signal {
	lt := Track(frames, left, cfg.MinVisibility)
	rt := Track(frames, right, cfg.MinVisibility)
	ls := Track(frames, LeftShoulder, cfg.MinVisibility)
	rs := Track(frames, RightShoulder, cfg.MinVisibility)

	sig := make(Signal, len(frames))
	for i, f := range frames {
		sep := Distance(lt[i], rt[i])
		sw := Distance(ls[i], rs[i])
		if sw < cfg.ShoulderWidthFloor {
			sw = 1
		}
		sig[i] = Sample{TimeSecs: f.TimestampSecs, Value: sep / sw}
	}
	return sig
}

// HeightScaleCm estimates the centimetres-per-normalized-unit conversion for
// the whole session. The per-frame pixel-height proxy is the vertical span
// from the nose to the heel midpoint; frames where the proxy falls below
// cfg.MinHeightProxy are too foreshortened to trust and are discarded. The
// session scale is the mean of the per-frame scales; zero when no frame
// qualifies.
func HeightScaleCm(frames []Frame, subjectHeightCm float64, cfg Config) float64 {
	nose := Track(frames, Nose, cfg.MinVisibility)
	lh := Track(frames, LeftHeel, cfg.MinVisibility)
	rh := Track(frames, RightHeel, cfg.MinVisibility)

	var sum float64
	var n int
	for i := range frames {
		proxy := frameHeightProxy(nose[i], lh[i], rh[i])
		if proxy < cfg.MinHeightProxy {
			continue
		}
		sum += subjectHeightCm / proxy
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// frameHeightProxy returns the absolute vertical span between the nose and
// the heel midpoint for one frame's carried-forward landmarks.
func frameHeightProxy(nose, leftHeel, rightHeel Point) float64 {
	avgHeelY := (leftHeel.Y + rightHeel.Y) / 2
	d := avgHeelY - nose.Y
	if d < 0 {
		return -d
	}
	return d
}
