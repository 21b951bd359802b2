package gait

import "sort"

// BaseOfSupportCm measures the medial-lateral heel separation during
// detected double-support phases and aggregates the valid widths at the
// configured percentile.
//
// A candidate width is taken only when the heels are vertically aligned
// within cfg.DoubleSupportTolerance (both feet on the ground). The
// horizontal separation is converted to centimetres with the per-frame
// height scale and the fixed perspective-correction factor, then clamped to
// the plausible range; implausible samples are silently dropped rather than
// surfaced as errors.
//
// The aggregate is the 25th percentile of the valid set by default, not the
// mean or median: the narrowest consistent stance is the clinically relevant
// steady-state width, and a low percentile suppresses the transient wide
// stances from turns and stumbles.
func BaseOfSupportCm(frames []Frame, subjectHeightCm float64, cfg Config) float64 {
	nose := Track(frames, Nose, cfg.MinVisibility)
	lh := Track(frames, LeftHeel, cfg.MinVisibility)
	rh := Track(frames, RightHeel, cfg.MinVisibility)

	var widths []float64
	for i := range frames {
		dy := lh[i].Y - rh[i].Y
		if dy < 0 {
			dy = -dy
		}
		if dy >= cfg.DoubleSupportTolerance {
			continue
		}
		proxy := frameHeightProxy(nose[i], lh[i], rh[i])
		if proxy < cfg.MinHeightProxy {
			continue
		}
		cmPerUnit := subjectHeightCm / proxy

		dx := lh[i].X - rh[i].X
		if dx < 0 {
			dx = -dx
		}
		w := dx * cmPerUnit * cfg.PerspectiveCorrection
		if w < cfg.BOSMinCm || w > cfg.BOSMaxCm {
			continue
		}
		widths = append(widths, w)
	}
	if len(widths) == 0 {
		return 0
	}
	sort.Float64s(widths)
	return percentileAt(widths, cfg.BOSPercentile)
}

// AverageHeelLiftCm measures per-foot vertical heel excursions from an
// estimated floor baseline and returns the mean lift in centimetres. A
// near-zero average despite a normal cadence flags magnetic/shuffling gait.
//
// Per foot, the floor level is the 90th percentile of the unsmoothed
// vertical series (near-maximal Y ≈ ground contact, robust to outliers); the
// lift events are the strict local minima of the smoothed series. Lifts
// below cfg.HeelLiftNoiseFloor are discarded as jitter. The normalized mean
// lift is converted with the session-averaged height scale.
func AverageHeelLiftCm(frames []Frame, subjectHeightCm float64, cfg Config) float64 {
	scale := HeightScaleCm(frames, subjectHeightCm, cfg)
	if scale == 0 {
		return 0
	}

	var lifts []float64
	for _, heel := range []Landmark{LeftHeel, RightHeel} {
		lifts = append(lifts, heelLifts(frames, heel, cfg)...)
	}
	if len(lifts) == 0 {
		return 0
	}

	var sum float64
	for _, l := range lifts {
		sum += l
	}
	return (sum / float64(len(lifts))) * scale
}

// heelLifts returns the normalized lift amounts for one foot's heel series.
func heelLifts(frames []Frame, heel Landmark, cfg Config) []float64 {
	track := Track(frames, heel, cfg.MinVisibility)
	raw := make(Signal, len(frames))
	for i, f := range frames {
		raw[i] = Sample{TimeSecs: f.TimestampSecs, Value: track[i].Y}
	}
	if len(raw) < 3 {
		return nil
	}

	// Floor from the raw series so smoothing cannot drag it upward.
	values := append([]float64(nil), raw.Values()...)
	sort.Float64s(values)
	floorLevel := percentileAt(values, cfg.HeelFloorPercentile)

	smoothed := SmoothSignal(raw, cfg.SmoothingWindow)

	var lifts []float64
	for i := 1; i < len(smoothed)-1; i++ {
		v := smoothed[i].Value
		if !(v < smoothed[i-1].Value && v < smoothed[i+1].Value) {
			continue
		}
		if lift := floorLevel - v; lift >= cfg.HeelLiftNoiseFloor {
			lifts = append(lifts, lift)
		}
	}
	return lifts
}

// percentileAt returns the element at index floor(p·N) of an ascending
// sorted slice, clamped to the last element. This index-exact definition is
// part of the metric contract (the reported BOS equals an actually observed
// width) and deliberately avoids interpolating quantile estimators.
func percentileAt(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
