package glide

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config tunes gesture recognition and fling physics. Distances are in the
// same units as pointer positions (pixels), velocities in units per second.
type Config struct {
	// TouchSlop is the movement a press must exceed before it becomes a drag.
	TouchSlop float32 `toml:"touch_slop" mapstructure:"touch_slop"`

	// MinFlingVelocity is the release speed at or below which no fling starts.
	MinFlingVelocity float32 `toml:"min_fling_velocity" mapstructure:"min_fling_velocity"`

	// MaxFlingVelocity caps the release speed handed to the animator.
	MaxFlingVelocity float32 `toml:"max_fling_velocity" mapstructure:"max_fling_velocity"`

	// VelocityWindowMs is how much pointer history the estimator keeps.
	VelocityWindowMs int64 `toml:"velocity_window_ms" mapstructure:"velocity_window_ms"`

	// Friction is the proportional decay rate of fling velocity (1/s).
	Friction float32 `toml:"friction" mapstructure:"friction"`

	// Deceleration is the constant braking term (units/s²). It is what makes
	// the velocity reach zero in finite time.
	Deceleration float32 `toml:"deceleration" mapstructure:"deceleration"`

	// StopVelocity ends a fling once its speed falls to this value.
	StopVelocity float32 `toml:"stop_velocity" mapstructure:"stop_velocity"`

	// TargetFPS is the tick rate Loop drives flings at.
	TargetFPS int `toml:"target_fps" mapstructure:"target_fps"`
}

// DefaultConfig returns defaults tuned for touch screens at 1x density.
func DefaultConfig() Config {
	return Config{
		TouchSlop:        10,
		MinFlingVelocity: 50,
		MaxFlingVelocity: 8000,
		VelocityWindowMs: 100,
		Friction:         3,
		Deceleration:     600,
		StopVelocity:     10,
		TargetFPS:        60,
	}
}

// Normalize replaces out of range values with defaults. Friction and
// StopVelocity may be zero; every other field must be positive. The engine
// calls it on every config it receives so a partially filled Config is usable.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.TouchSlop <= 0 {
		c.TouchSlop = d.TouchSlop
	}
	if c.MinFlingVelocity <= 0 {
		c.MinFlingVelocity = d.MinFlingVelocity
	}
	if c.MaxFlingVelocity <= 0 {
		c.MaxFlingVelocity = d.MaxFlingVelocity
	}
	if c.MaxFlingVelocity < c.MinFlingVelocity {
		c.MaxFlingVelocity = c.MinFlingVelocity
	}
	if c.VelocityWindowMs <= 0 {
		c.VelocityWindowMs = d.VelocityWindowMs
	}
	if c.Friction < 0 {
		c.Friction = d.Friction
	}
	if c.Deceleration <= 0 {
		c.Deceleration = d.Deceleration
	}
	if c.StopVelocity < 0 {
		c.StopVelocity = d.StopVelocity
	}
	if c.TargetFPS < 1 {
		c.TargetFPS = d.TargetFPS
	}
	return c
}

// Validate reports every field that Normalize would have to replace.
func (c Config) Validate() error {
	var errs []error
	if c.TouchSlop <= 0 {
		errs = append(errs, fmt.Errorf("touch_slop must be positive, got %v", c.TouchSlop))
	}
	if c.MinFlingVelocity <= 0 {
		errs = append(errs, fmt.Errorf("min_fling_velocity must be positive, got %v", c.MinFlingVelocity))
	}
	if c.MaxFlingVelocity < c.MinFlingVelocity {
		errs = append(errs, fmt.Errorf("max_fling_velocity %v is below min_fling_velocity %v", c.MaxFlingVelocity, c.MinFlingVelocity))
	}
	if c.VelocityWindowMs <= 0 {
		errs = append(errs, fmt.Errorf("velocity_window_ms must be positive, got %d", c.VelocityWindowMs))
	}
	if c.Friction < 0 {
		errs = append(errs, fmt.Errorf("friction must not be negative, got %v", c.Friction))
	}
	if c.Deceleration <= 0 {
		errs = append(errs, fmt.Errorf("deceleration must be positive, got %v", c.Deceleration))
	}
	if c.StopVelocity < 0 {
		errs = append(errs, fmt.Errorf("stop_velocity must not be negative, got %v", c.StopVelocity))
	}
	if c.TargetFPS < 1 {
		errs = append(errs, fmt.Errorf("target_fps must be at least 1, got %d", c.TargetFPS))
	}
	return errors.Join(errs...)
}

// configFile is the on-disk layout: tuning lives under [scroll] so the file
// can share a project config with other sections.
type configFile struct {
	Scroll Config `toml:"scroll"`
}

// ParseConfig decodes TOML, starting from DefaultConfig so omitted keys keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	file := configFile{Scroll: DefaultConfig()}
	if err := toml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := file.Scroll.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return file.Scroll, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseConfig(data)
}

// MarshalConfig encodes c in the same layout ParseConfig reads.
func MarshalConfig(c Config) ([]byte, error) {
	return toml.Marshal(configFile{Scroll: c})
}
