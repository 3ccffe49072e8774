package tagplay

import (
	"fmt"
	"regexp"
)

// Container holds sprites and is told when one terminates.
type Container interface {
	Remove(s *Sprite)
}

// Sprite plays tags from a FrameCatalog in the order its TagQueue yields
// them. Each tick accumulates elapsed time and advances at most one frame
// once Rate has passed. When a tag runs out of frames the Sprite either
// loops it (idle tags) or releases to the next tag. An exhausted queue
// falls back to the persist queue if there is one; otherwise the Sprite
// terminates and leaves its Container.
//
// A Sprite is not safe for concurrent use; drive it from one goroutine.
type Sprite struct {
	// Rate is how long, in seconds, each frame is shown.
	Rate float64
	// Interval is the tick cadence requested from the Scheduler. It is
	// independent of Rate.
	Interval float64
	// IdlePattern matches tags that loop instead of advancing. Nil disables
	// looping.
	IdlePattern *regexp.Regexp

	name    string
	src     Source
	sheet   string
	catalog *FrameCatalog

	tag     string
	frame   int
	frameID string
	elapsed float64
	mode    Mode
	state   State
	err     error

	queue   *TagQueue
	persist *TagQueue

	sched  Scheduler
	tick   Handle
	parent Container
	sink   EventSink
}

// NewSprite creates a Sprite linked to sheet through src. queue drives
// playback; persist, when non-nil, takes over whenever queue is exhausted.
// An auto-release queue with no persist queue persists itself, so it flows
// through its tags forever. Both queues are bound to the new Sprite.
func NewSprite(name string, src Source, sheet string, queue, persist *TagQueue) (*Sprite, error) {
	cfg := DefaultConfig()
	s := &Sprite{
		Rate:        cfg.Rate,
		Interval:    cfg.Interval,
		IdlePattern: defaultIdlePattern,
		name:        name,
		src:         src,
	}
	if queue != nil && queue.AutoRelease() && persist == nil {
		persist = queue
	}
	if persist != nil {
		if err := persist.SetOwner(s); err != nil {
			return nil, err
		}
		s.persist = persist
	}
	if _, err := s.Link(sheet, queue); err != nil {
		return nil, err
	}
	return s, nil
}

// Link rebuilds the frame catalog from sheet. A non-nil queue becomes the
// active queue; its cursor is left as is. Nothing changes on error. Link
// returns the Sprite so it can be chained into Start.
func (s *Sprite) Link(sheet string, queue *TagQueue) (*Sprite, error) {
	if s.src == nil {
		return s, fmt.Errorf("link %q: %w", sheet, ErrUnknownSheet)
	}
	groups, err := s.src.Load(sheet)
	if err != nil {
		return s, fmt.Errorf("link %q: %w", sheet, err)
	}
	if queue != nil {
		if err := queue.SetOwner(s); err != nil {
			return s, err
		}
		s.queue = queue
	}
	s.catalog = NewFrameCatalog(groups)
	s.sheet = sheet
	debugf("sprite %q linked to %q (%d tags)", s.name, sheet, len(groups))
	return s, nil
}

// SetPersist sets the queue the Sprite falls back to when the active queue
// is exhausted. Nil clears it.
func (s *Sprite) SetPersist(queue *TagQueue) error {
	if queue != nil {
		if err := queue.SetOwner(s); err != nil {
			return err
		}
	}
	s.persist = queue
	return nil
}

// SetScheduler sets the tick source. Without one the caller drives Update.
func (s *Sprite) SetScheduler(sched Scheduler) { s.sched = sched }

// SetContainer sets the container notified on termination.
func (s *Sprite) SetContainer(c Container) { s.parent = c }

// SetEventSink sets the receiver of playback events.
func (s *Sprite) SetEventSink(sink EventSink) { s.sink = sink }

// Start draws the next tag from the active queue and plays it. It returns
// the tag's expected duration in seconds. An exhausted queue is handled as
// in Release.
func (s *Sprite) Start() (float64, error) {
	if s.state == StateTerminated {
		return 0, ErrTerminated
	}
	if s.queue == nil {
		return 0, ErrNoQueue
	}
	step, err := s.queue.Advance()
	if err != nil {
		s.halt(err)
		return 0, err
	}
	if step.End {
		return s.exhaust()
	}
	return s.begin(step.Tag), nil
}

// StartTag plays tag directly, leaving the active queue untouched.
func (s *Sprite) StartTag(tag string) (float64, error) {
	if s.state == StateTerminated {
		return 0, ErrTerminated
	}
	return s.begin(tag), nil
}

// StartQueue makes queue the active queue and plays its next tag.
func (s *Sprite) StartQueue(queue *TagQueue) (float64, error) {
	if s.state == StateTerminated {
		return 0, ErrTerminated
	}
	if queue == nil {
		return 0, ErrNoQueue
	}
	if err := queue.SetOwner(s); err != nil {
		return 0, err
	}
	s.queue = queue
	return s.Start()
}

// begin cancels in-flight ticking, selects the mode for tag, rewinds to
// frame 0 and schedules ticking.
func (s *Sprite) begin(tag string) float64 {
	s.cancelTick()
	s.tag = tag
	s.err = nil

	idle := s.IdlePattern != nil && s.IdlePattern.MatchString(tag)
	if idle && (s.queue == nil || !s.queue.AutoRelease()) {
		s.mode = ModeLooping
		s.state = StateLooping
	} else {
		s.mode = ModeAdvancing
		s.state = StateAdvancing
	}
	s.frame = 0

	if s.sched != nil {
		s.tick = s.sched.Schedule(s.Interval, s.onTick)
	}
	d := s.AnimTime(tag)
	debugf("sprite %q start %q (%s, %.2fs)", s.name, tag, s.mode, d)
	s.emit(PlaybackEvent{Type: EventTagStarted, Tag: tag, Mode: s.mode, Duration: d})
	return d
}

func (s *Sprite) onTick(dt float64) {
	if err := s.Update(dt); err != nil {
		debugf("sprite %q: %v", s.name, err)
	}
}

// Update accumulates dt and, once more than Rate has built up, shows the
// next frame of the active tag. At most one frame advances per call; excess
// time carries over. After the last frame the tag ends: looping tags rewind,
// others release to the next tag. A frame missing from the catalog halts
// playback and is returned as ErrFrameNotFound; a failing release trigger
// halts it with the trigger's error.
func (s *Sprite) Update(dt float64) error {
	if s.state != StateLooping && s.state != StateAdvancing {
		return s.err
	}
	s.elapsed += dt
	if s.elapsed <= s.Rate {
		return nil
	}
	s.elapsed -= s.Rate

	id, err := s.catalog.Frame(s.tag, s.frame)
	if err != nil {
		s.halt(err)
		return err
	}
	s.frameID = id
	s.frame++
	if s.frame >= s.catalog.Len(s.tag) {
		return s.end()
	}
	return nil
}

func (s *Sprite) end() error {
	if s.mode == ModeLooping {
		s.frame = 0
		s.emit(PlaybackEvent{Type: EventTagLooped, Tag: s.tag, Mode: s.mode})
		return nil
	}
	// Advance releases the completed tag's dependents before drawing.
	_, err := s.Release()
	return err
}

// Release leaves the current tag for the next one in the active queue and
// returns its expected duration. When the queue is exhausted the persist
// queue is reset and takes over. A persist queue that is itself exhausted
// loops again only if it is auto-release; otherwise, as with no persist
// queue, the Sprite terminates and Release returns 0.
func (s *Sprite) Release() (float64, error) {
	if s.state == StateTerminated {
		return 0, nil
	}
	if s.queue == nil {
		return 0, ErrNoQueue
	}
	step, err := s.queue.Advance()
	if err != nil {
		s.halt(err)
		return 0, err
	}
	if !step.End {
		return s.begin(step.Tag), nil
	}
	return s.exhaust()
}

func (s *Sprite) exhaust() (float64, error) {
	p := s.persist
	if p != nil && (p != s.queue || p.AutoRelease()) {
		p.Reset()
		s.queue = p
		s.emit(PlaybackEvent{Type: EventQueueSwitched, Tag: s.tag, Mode: s.mode})
		step, err := p.Advance()
		if err != nil {
			s.halt(err)
			return 0, err
		}
		if !step.End {
			return s.begin(step.Tag), nil
		}
	}
	s.terminate()
	return 0, nil
}

func (s *Sprite) terminate() {
	s.cancelTick()
	s.state = StateTerminated
	debugf("sprite %q terminated after %q", s.name, s.tag)
	if p := s.parent; p != nil {
		s.parent = nil
		p.Remove(s)
	}
	s.emit(PlaybackEvent{Type: EventTerminated, Tag: s.tag, Mode: s.mode})
}

func (s *Sprite) halt(err error) {
	s.cancelTick()
	s.state = StateHalted
	s.err = err
	debugf("sprite %q halted: %v", s.name, err)
	s.emit(PlaybackEvent{Type: EventHalted, Tag: s.tag, Mode: s.mode, Err: err})
}

// Stop cancels ticking without changing state. Start or Release resumes.
func (s *Sprite) Stop() { s.cancelTick() }

func (s *Sprite) cancelTick() {
	if s.tick != nil {
		s.tick.Cancel()
		s.tick = nil
	}
}

func (s *Sprite) emit(e PlaybackEvent) {
	if s.sink == nil {
		return
	}
	e.Sprite = s.name
	s.sink.EmitEvent(e)
}

// AnimTime returns how long tag takes to play once, in seconds: its frame
// count times Rate, rounded to two decimals. Unknown tags take 0.
func (s *Sprite) AnimTime(tag string) float64 {
	if s.catalog == nil {
		return 0
	}
	return round2(float64(s.catalog.Len(tag)) * s.Rate)
}

// TotalAnimTime returns the summed AnimTime of every tag in the catalog.
func (s *Sprite) TotalAnimTime() float64 {
	if s.catalog == nil {
		return 0
	}
	total := 0.0
	for _, tag := range s.catalog.Tags() {
		total += s.AnimTime(tag)
	}
	return round2(total)
}

// Name returns the sprite name.
func (s *Sprite) Name() string { return s.name }

// Sheet returns the linked spritesheet identifier.
func (s *Sprite) Sheet() string { return s.sheet }

// Catalog returns the frame catalog built by the last Link.
func (s *Sprite) Catalog() *FrameCatalog { return s.catalog }

// Tag returns the active tag.
func (s *Sprite) Tag() string { return s.tag }

// FrameIndex returns the index of the next frame to show.
func (s *Sprite) FrameIndex() int { return s.frame }

// FrameID returns the identifier of the frame currently shown, for a render
// layer to display. It is empty until the first frame advance.
func (s *Sprite) FrameID() string { return s.frameID }

// Mode returns the playback mode of the active tag.
func (s *Sprite) Mode() Mode { return s.mode }

// State returns the playback state.
func (s *Sprite) State() State { return s.state }

// Queue returns the active queue.
func (s *Sprite) Queue() *TagQueue { return s.queue }

// Persist returns the persist queue.
func (s *Sprite) Persist() *TagQueue { return s.persist }

// Err returns the error that halted playback, if any.
func (s *Sprite) Err() error { return s.err }
