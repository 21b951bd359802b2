package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stride-data/gait.report/internal/gait"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root configuration for the detection tuning constants.
// The schema matches the /api/config endpoint so the same JSON serves both
// startup configuration and inspection. All values were calibrated against
// pathological reference footage; fields omitted from a JSON file retain
// their defaults, so partial overrides are safe.
type TuningConfig struct {
	// Ingest params
	MinVisibility      *float64 `json:"min_visibility,omitempty"`
	MinHeightProxy     *float64 `json:"min_height_proxy,omitempty"`
	ShoulderWidthFloor *float64 `json:"shoulder_width_floor,omitempty"`
	MaxRecordingSecs   *float64 `json:"max_recording_secs,omitempty"`

	// Time-domain detector params
	SmoothingWindow    *int     `json:"smoothing_window,omitempty"`
	ThresholdFloor     *float64 `json:"threshold_floor,omitempty"`
	MinPeakSpacingSecs *float64 `json:"min_peak_spacing_secs,omitempty"`

	// Frequency-domain estimator params
	BandMinHz  *float64 `json:"band_min_hz,omitempty"`
	BandMaxHz  *float64 `json:"band_max_hz,omitempty"`
	BandStepHz *float64 `json:"band_step_hz,omitempty"`

	// Stride disambiguation params
	StrideCadenceMin *float64 `json:"stride_cadence_min,omitempty"`
	StrideCadenceMax *float64 `json:"stride_cadence_max,omitempty"`
	StridePeakRatio  *float64 `json:"stride_peak_ratio,omitempty"`

	// Consensus params
	ConsensusTolerance *float64 `json:"consensus_tolerance,omitempty"`
	ConsensusMinFFT    *int     `json:"consensus_min_fft,omitempty"`

	// Spatial params
	DoubleSupportTolerance *float64 `json:"double_support_tolerance,omitempty"`
	PerspectiveCorrection  *float64 `json:"perspective_correction,omitempty"`
	BOSMinCm               *float64 `json:"bos_min_cm,omitempty"`
	BOSMaxCm               *float64 `json:"bos_max_cm,omitempty"`
	BOSPercentile          *float64 `json:"bos_percentile,omitempty"`
	HeelFloorPercentile    *float64 `json:"heel_floor_percentile,omitempty"`
	HeelLiftNoiseFloor     *float64 `json:"heel_lift_noise_floor,omitempty"`

	// Secondary (shuffle-sensitive) engine overrides
	ShuffleSmoothingWindow    *int     `json:"shuffle_smoothing_window,omitempty"`
	ShuffleThresholdFloor     *float64 `json:"shuffle_threshold_floor,omitempty"`
	ShuffleMinPeakSpacingSecs *float64 `json:"shuffle_min_peak_spacing_secs,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset. Use
// LoadTuningConfig to load actual values from a defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching upward from the current directory. Panics if
// the file cannot be found; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that any set values are within valid operating ranges.
func (c *TuningConfig) Validate() error {
	for name, v := range map[string]*float64{
		"min_visibility":        c.MinVisibility,
		"consensus_tolerance":   c.ConsensusTolerance,
		"bos_percentile":        c.BOSPercentile,
		"heel_floor_percentile": c.HeelFloorPercentile,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}

	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", *c.SmoothingWindow)
	}
	if c.ShuffleSmoothingWindow != nil && *c.ShuffleSmoothingWindow < 1 {
		return fmt.Errorf("shuffle_smoothing_window must be >= 1, got %d", *c.ShuffleSmoothingWindow)
	}
	if c.BandStepHz != nil && *c.BandStepHz <= 0 {
		return fmt.Errorf("band_step_hz must be positive, got %f", *c.BandStepHz)
	}
	if c.BandMinHz != nil && c.BandMaxHz != nil && *c.BandMinHz >= *c.BandMaxHz {
		return fmt.Errorf("band_min_hz %f must be below band_max_hz %f", *c.BandMinHz, *c.BandMaxHz)
	}
	if c.MaxRecordingSecs != nil && *c.MaxRecordingSecs <= 0 {
		return fmt.Errorf("max_recording_secs must be positive, got %f", *c.MaxRecordingSecs)
	}
	if c.StrideCadenceMin != nil && c.StrideCadenceMax != nil && *c.StrideCadenceMin >= *c.StrideCadenceMax {
		return fmt.Errorf("stride_cadence_min %f must be below stride_cadence_max %f",
			*c.StrideCadenceMin, *c.StrideCadenceMax)
	}
	return nil
}

// EngineConfigs materialises the primary and secondary detector tunings,
// starting from the engine defaults and applying any set overrides.
func (c *TuningConfig) EngineConfigs() (primary, secondary gait.Config) {
	primary = gait.DefaultConfig()
	secondary = gait.ShuffleConfig()

	for _, cfg := range []*gait.Config{&primary, &secondary} {
		applyFloat(&cfg.MinVisibility, c.MinVisibility)
		applyFloat(&cfg.MinHeightProxy, c.MinHeightProxy)
		applyFloat(&cfg.ShoulderWidthFloor, c.ShoulderWidthFloor)
		applyFloat(&cfg.MaxRecordingSecs, c.MaxRecordingSecs)
		applyFloat(&cfg.BandMinHz, c.BandMinHz)
		applyFloat(&cfg.BandMaxHz, c.BandMaxHz)
		applyFloat(&cfg.BandStepHz, c.BandStepHz)
		applyFloat(&cfg.StrideCadenceMin, c.StrideCadenceMin)
		applyFloat(&cfg.StrideCadenceMax, c.StrideCadenceMax)
		applyFloat(&cfg.StridePeakRatio, c.StridePeakRatio)
		applyFloat(&cfg.ConsensusTolerance, c.ConsensusTolerance)
		applyInt(&cfg.ConsensusMinFFT, c.ConsensusMinFFT)
		applyFloat(&cfg.DoubleSupportTolerance, c.DoubleSupportTolerance)
		applyFloat(&cfg.PerspectiveCorrection, c.PerspectiveCorrection)
		applyFloat(&cfg.BOSMinCm, c.BOSMinCm)
		applyFloat(&cfg.BOSMaxCm, c.BOSMaxCm)
		applyFloat(&cfg.BOSPercentile, c.BOSPercentile)
		applyFloat(&cfg.HeelFloorPercentile, c.HeelFloorPercentile)
		applyFloat(&cfg.HeelLiftNoiseFloor, c.HeelLiftNoiseFloor)
	}

	applyInt(&primary.SmoothingWindow, c.SmoothingWindow)
	applyFloat(&primary.ThresholdFloor, c.ThresholdFloor)
	applyFloat(&primary.MinPeakSpacingSecs, c.MinPeakSpacingSecs)

	applyInt(&secondary.SmoothingWindow, c.ShuffleSmoothingWindow)
	applyFloat(&secondary.ThresholdFloor, c.ShuffleThresholdFloor)
	applyFloat(&secondary.MinPeakSpacingSecs, c.ShuffleMinPeakSpacingSecs)

	return primary, secondary
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// GetMaxRecordingSecs returns the max_recording_secs value or the default.
func (c *TuningConfig) GetMaxRecordingSecs() float64 {
	if c.MaxRecordingSecs == nil {
		return gait.DefaultConfig().MaxRecordingSecs
	}
	return *c.MaxRecordingSecs
}
