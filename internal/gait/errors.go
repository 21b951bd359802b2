package gait

import "errors"

// Analysis failures are typed so callers can distinguish a broken request
// from a legitimate "zero steps detected" clinical outcome. Degenerate but
// well-formed input (empty or constant signal) is NOT an error: it yields
// defined-zero metrics.
var (
	// ErrInvalidHeight reports a missing or non-positive subject height,
	// without which no spatial metric can be scaled.
	ErrInvalidHeight = errors.New("gait: subject height must be positive")

	// ErrRecordingTooLong reports a recording over the configured duration cap.
	ErrRecordingTooLong = errors.New("gait: recording exceeds maximum duration")

	// ErrOutOfOrderFrames reports frame timestamps that are not strictly
	// increasing.
	ErrOutOfOrderFrames = errors.New("gait: frame timestamps must be strictly increasing")
)
