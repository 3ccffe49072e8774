package tagplay

import (
	"slices"
	"time"
)

// Stage is the top-level object that owns the sprites, their tick clock and
// the optional event bridge. The host calls Update once per frame.
type Stage struct {
	clock   *Clock
	sprites []*Sprite
	sink    EventSink
	debug   bool
	removed int

	script *Script
}

// NewStage creates an empty stage with its own Clock.
func NewStage() *Stage {
	return &Stage{clock: NewClock()}
}

// Clock returns the stage clock. Sprites added to the stage schedule their
// ticks on it.
func (s *Stage) Clock() *Clock {
	return s.clock
}

// Add attaches sp to the stage: it ticks on the stage clock, reports to the
// stage event sink, and is removed from the stage on termination. Adding a
// sprite twice is a no-op.
func (s *Stage) Add(sp *Sprite) {
	if slices.Contains(s.sprites, sp) {
		return
	}
	sp.SetScheduler(s.clock)
	sp.SetContainer(s)
	if s.sink != nil {
		sp.SetEventSink(s.sink)
	}
	s.sprites = append(s.sprites, sp)
}

// Remove detaches sp and stops its ticking. It implements Container, so
// terminated sprites leave the stage on their own.
func (s *Stage) Remove(sp *Sprite) {
	for i, c := range s.sprites {
		if c == sp {
			sp.Stop()
			if sp.parent == Container(s) {
				sp.parent = nil
			}
			s.sprites = slices.Delete(s.sprites, i, i+1)
			s.removed++
			return
		}
	}
}

// Sprites returns the stage's sprites. The returned slice MUST NOT be mutated.
func (s *Stage) Sprites() []*Sprite {
	return s.sprites
}

// Sprite returns the first sprite with the given name, or nil.
func (s *Stage) Sprite(name string) *Sprite {
	for _, sp := range s.sprites {
		if sp.Name() == name {
			return sp
		}
	}
	return nil
}

// SetEventSink sets the event bridge for current and future sprites.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sink = sink
	for _, sp := range s.sprites {
		sp.SetEventSink(sink)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, sprite and
// queue transitions are logged and per-update stats are printed to stderr.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// ApplyConfig applies cfg to every sprite on the stage and sets debug mode.
func (s *Stage) ApplyConfig(cfg Config) error {
	for _, sp := range s.sprites {
		if err := cfg.Apply(sp); err != nil {
			return err
		}
	}
	s.SetDebugMode(cfg.Debug)
	return nil
}

// SetScript attaches a playback script. Its next step runs at the start of
// each Update.
func (s *Stage) SetScript(script *Script) {
	s.script = script
}

// Update runs the attached script, then advances the clock by dt seconds.
func (s *Stage) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.removed = 0
	}

	if s.script != nil {
		s.script.step(s)
	}
	s.clock.Advance(dt)

	if s.debug {
		stats := debugStats{
			tickTime:    time.Since(t0),
			sprites:     len(s.sprites),
			scheduled:   s.clock.Pending(),
			removedThis: s.removed,
		}
		for _, sp := range s.sprites {
			switch sp.State() {
			case StateLooping:
				stats.looping++
			case StateAdvancing:
				stats.advancing++
			}
		}
		s.debugLog(stats)
	}
}
