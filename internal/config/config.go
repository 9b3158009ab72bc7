package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every constant that shapes the scrub behavior. The composite
// factors (FrameScale, BandStart) are tied to the framing of one particular
// source asset; treat them as configuration, not values to re-derive.
type Tuning struct {
	FreezeTime    float64 `yaml:"freeze_time"`     // playback ceiling in seconds
	DecayRate     float64 `yaml:"decay_rate"`      // exponential smoothing rate, 1/s
	SeekFPS       float64 `yaml:"seek_fps"`        // max accepted seeks per second
	MinTimeStep   float64 `yaml:"min_time_step"`   // dead-zone is half this
	ScrollSlop    float64 `yaml:"scroll_slop"`     // ready-flag slack below FreezeTime
	MaxDeltaT     float64 `yaml:"max_delta_t"`     // dt cap per step
	NominalDeltaT float64 `yaml:"nominal_delta_t"` // assumed dt for the first step
	MaxPixelRatio float64 `yaml:"max_pixel_ratio"`

	FrameScale float64 `yaml:"frame_scale"` // shrink below exact fit
	BandStart  float64 `yaml:"band_start"`  // blend band start, fraction of frame height

	GradientTop    Color `yaml:"gradient_top"`
	GradientBottom Color `yaml:"gradient_bottom"`
	BandColor      Color `yaml:"band_color"`

	AssetPath string `yaml:"asset_path"`
	SkipIntro bool   `yaml:"skip_intro"`
}

// Color is an 8-bit RGB triple, YAML-friendly.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// DefaultTuning returns the tuning used by the production intro.
func DefaultTuning() Tuning {
	return Tuning{
		FreezeTime:     7.0,
		DecayRate:      11.0,
		SeekFPS:        72,
		MinTimeStep:    1.0 / 45,
		ScrollSlop:     0.05,
		MaxDeltaT:      0.1,
		NominalDeltaT:  1.0 / 60,
		MaxPixelRatio:  2.0,
		FrameScale:     0.86,
		BandStart:      0.74,
		GradientTop:    Color{R: 0x0b, G: 0x0e, B: 0x14},
		GradientBottom: Color{R: 0x14, G: 0x18, B: 0x22},
		BandColor:      Color{R: 0x0b, G: 0x0e, B: 0x14},
	}
}

// Validate rejects values that would break the loop invariants.
func (t *Tuning) Validate() error {
	if t.FreezeTime <= 0 {
		return fmt.Errorf("freeze_time must be positive, got %g", t.FreezeTime)
	}
	if t.DecayRate <= 0 {
		return fmt.Errorf("decay_rate must be positive, got %g", t.DecayRate)
	}
	if t.SeekFPS <= 0 {
		return fmt.Errorf("seek_fps must be positive, got %g", t.SeekFPS)
	}
	if t.MinTimeStep <= 0 {
		return fmt.Errorf("min_time_step must be positive, got %g", t.MinTimeStep)
	}
	if t.ScrollSlop < 0 || t.ScrollSlop >= t.FreezeTime {
		return fmt.Errorf("scroll_slop must be in [0, freeze_time), got %g", t.ScrollSlop)
	}
	if t.MaxDeltaT <= 0 || t.NominalDeltaT <= 0 {
		return fmt.Errorf("delta-t bounds must be positive")
	}
	if t.MaxPixelRatio < 1 {
		return fmt.Errorf("max_pixel_ratio must be >= 1, got %g", t.MaxPixelRatio)
	}
	if t.FrameScale <= 0 || t.FrameScale > 1 {
		return fmt.Errorf("frame_scale must be in (0, 1], got %g", t.FrameScale)
	}
	if t.BandStart <= 0 || t.BandStart > 1 {
		return fmt.Errorf("band_start must be in (0, 1], got %g", t.BandStart)
	}
	return nil
}

// ReadTuning loads a tuning file. Fields absent from the file keep their
// defaults, so a file may override a single constant.
func ReadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, err
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// WriteTuning writes a tuning to a YAML file.
func WriteTuning(t Tuning, path string) error {
	data, err := yaml.Marshal(&t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
