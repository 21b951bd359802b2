// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stride-data/gait.report/internal/gait"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// WalkRecording synthesizes a clean walk at the given cadence for tests that
// need a full recording without caring about the exact landmark geometry.
// Ankle separation follows a rectified sine whose period is one step, heels
// alternate lifting with each stride, and the torso stays fixed so shoulder
// width normalization is stable.
func WalkRecording(cadencePerMin, durationSecs, fps float64) gait.Recording {
	stepHz := cadencePerMin / 60.0
	strideHz := stepHz / 2
	n := int(durationSecs * fps)
	frames := make([]gait.Frame, n)
	for i := 0; i < n; i++ {
		t := float64(i) / fps
		swing := 0.06 * math.Abs(math.Sin(math.Pi*stepHz*t))
		frames[i] = gait.Frame{
			Index:         i,
			TimestampSecs: t,
			Landmarks: map[gait.Landmark]gait.Point{
				gait.Nose:          {X: 0.5, Y: 0.20, Visibility: 0.95},
				gait.LeftShoulder:  {X: 0.42, Y: 0.35, Visibility: 0.95},
				gait.RightShoulder: {X: 0.58, Y: 0.35, Visibility: 0.95},
				gait.LeftAnkle:     {X: 0.5 - (0.04 + swing/2), Y: 0.88, Visibility: 0.9},
				gait.RightAnkle:    {X: 0.5 + (0.04 + swing/2), Y: 0.88, Visibility: 0.9},
				gait.LeftHeel:      {X: 0.46, Y: 0.88 - math.Max(0, 0.03*math.Sin(2*math.Pi*strideHz*t)), Visibility: 0.9},
				gait.RightHeel:     {X: 0.54, Y: 0.88 - math.Max(0, -0.03*math.Sin(2*math.Pi*strideHz*t)), Visibility: 0.9},
			},
		}
	}
	return gait.Recording{Frames: frames, SubjectHeightCm: 170, DurationSecs: durationSecs}
}
