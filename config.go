package tagplay

import (
	"fmt"
	"regexp"

	"gopkg.in/ini.v1"
)

// DefaultIdlePattern matches tags whose last or any underscore-separated
// segment is "idle", case-insensitively: "white_Idle", "Idle_Var1".
const DefaultIdlePattern = `(?i)(^|_)idle(_|$)`

var defaultIdlePattern = regexp.MustCompile(DefaultIdlePattern)

// Config holds playback defaults applied to sprites.
type Config struct {
	Rate        float64 // seconds per frame
	Interval    float64 // seconds between ticks
	IdlePattern string  // regexp selecting looping tags; empty disables looping
	Debug       bool    // mirror into Stage.SetDebugMode
}

// DefaultConfig returns a frame rate of 0.15s on a 1/6s tick.
func DefaultConfig() Config {
	return Config{
		Rate:        0.15,
		Interval:    1.0 / 6.0,
		IdlePattern: DefaultIdlePattern,
	}
}

// LoadConfig reads the [playback] section of INI data on top of
// DefaultConfig:
//
//	[playback]
//	rate = 0.15
//	interval = 0.1667
//	idle_pattern = (?i)(^|_)idle(_|$)
//	debug = false
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	f, err := ini.Load(data)
	if err != nil {
		return cfg, fmt.Errorf("tagplay: failed to parse config: %w", err)
	}
	sec := f.Section("playback")
	cfg.Rate = sec.Key("rate").MustFloat64(cfg.Rate)
	cfg.Interval = sec.Key("interval").MustFloat64(cfg.Interval)
	if sec.HasKey("idle_pattern") {
		cfg.IdlePattern = sec.Key("idle_pattern").String()
	}
	cfg.Debug = sec.Key("debug").MustBool(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports non-positive timings and bad idle patterns.
func (c Config) Validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("tagplay: rate must be positive, got %v", c.Rate)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("tagplay: interval must be positive, got %v", c.Interval)
	}
	if _, err := regexp.Compile(c.IdlePattern); err != nil {
		return fmt.Errorf("tagplay: bad idle pattern: %w", err)
	}
	return nil
}

// Apply copies the config onto s.
func (c Config) Apply(s *Sprite) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.Rate = c.Rate
	s.Interval = c.Interval
	s.IdlePattern = nil
	if c.IdlePattern != "" {
		s.IdlePattern = regexp.MustCompile(c.IdlePattern)
	}
	return nil
}
