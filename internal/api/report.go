package api

import (
	"fmt"

	"github.com/stride-data/gait.report/internal/gait"
)

// Assessment is a qualitative reading of one set of metrics, attached to the
// analysis response so callers don't each reimplement the banding.
type Assessment struct {
	CadenceClass     string `json:"cadence_class"`
	VariabilityClass string `json:"variability_class"`
	Summary          string `json:"summary"`
}

// Cadence bands in steps per minute. The typical band is deliberately wide:
// the engine serves screening, not diagnosis.
const (
	slowCadenceMax    = 70
	typicalCadenceMax = 115
)

// Step-time variability bands in milliseconds.
const (
	lowVariabilityMaxMs      = 30.0
	moderateVariabilityMaxMs = 80.0
)

// Assess classifies metrics into qualitative bands. A variability of
// InsufficientVariabilityMs means fewer than two detected steps, which is
// reported as missing data rather than a band.
func Assess(m gait.Metrics, durationSecs float64) Assessment {
	a := Assessment{
		CadenceClass:     cadenceClass(m.CadencePerMin),
		VariabilityClass: variabilityClass(m.StepTimeVariabilityMs),
	}
	a.Summary = fmt.Sprintf("%d steps over %.1fs (%d/min, %s cadence, %s variability)",
		m.StepCount, durationSecs, m.CadencePerMin, a.CadenceClass, a.VariabilityClass)
	return a
}

func cadenceClass(cadencePerMin int) string {
	switch {
	case cadencePerMin == 0:
		return "none"
	case cadencePerMin < slowCadenceMax:
		return "slow"
	case cadencePerMin <= typicalCadenceMax:
		return "typical"
	default:
		return "fast"
	}
}

func variabilityClass(variabilityMs float64) string {
	switch {
	case variabilityMs == gait.InsufficientVariabilityMs:
		return "insufficient data"
	case variabilityMs <= lowVariabilityMaxMs:
		return "low"
	case variabilityMs <= moderateVariabilityMaxMs:
		return "moderate"
	default:
		return "high"
	}
}

// MergeAssessments overlays b onto a, keeping a's fields wherever they are
// already set. The analysis endpoint uses it to let a caller-supplied
// partial assessment (a clinician's override) take precedence over the
// computed bands while the rest are filled in.
func MergeAssessments(a, b Assessment) Assessment {
	if a.CadenceClass == "" {
		a.CadenceClass = b.CadenceClass
	}
	if a.VariabilityClass == "" {
		a.VariabilityClass = b.VariabilityClass
	}
	if a.Summary == "" {
		a.Summary = b.Summary
	}
	return a
}
