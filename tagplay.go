package tagplay

import (
	"errors"
	"math"
)

// Sentinel errors. Wrapped errors returned by this package can be tested
// with errors.Is.
var (
	// ErrInvalidDependentType is returned when a dependents value is neither a
	// single releasable (TagQueue or Sprite) nor a slice of them.
	ErrInvalidDependentType = errors.New("tagplay: dependents must be tag: TagQueue/[]TagQueue pairs")

	// ErrInvalidOwnerType is returned when a queue owner is not a *Sprite.
	ErrInvalidOwnerType = errors.New("tagplay: queue owner must be a *Sprite")

	// ErrOwnerConflict is returned when a queue is already bound to another
	// live Sprite. The first bind wins.
	ErrOwnerConflict = errors.New("tagplay: queue is already bound to another sprite")

	// ErrFrameNotFound is returned when a frame lookup misses the catalog.
	ErrFrameNotFound = errors.New("tagplay: frame not found")

	// ErrUnboundQueueRelease is returned when a queue needs its owning Sprite
	// (release, atlas change) but has none.
	ErrUnboundQueueRelease = errors.New("tagplay: queue has no owning sprite")

	// ErrNoQueue is returned when a Sprite is asked to draw a tag without an
	// active queue.
	ErrNoQueue = errors.New("tagplay: sprite has no active queue")

	// ErrTerminated is returned when a terminated Sprite is asked to start.
	ErrTerminated = errors.New("tagplay: sprite is terminated")
)

// Mode selects what a Sprite does when the active tag runs out of frames.
type Mode uint8

const (
	ModeAdvancing Mode = iota // tag completion releases to the next tag
	ModeLooping               // tag replays until released externally
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLooping:
		return "looping"
	default:
		return "advancing"
	}
}

// State is a Sprite's playback state.
type State uint8

const (
	StateInitial    State = iota // constructed, never started
	StateLooping                 // playing an idle tag on repeat
	StateAdvancing               // playing a tag that releases on completion
	StateTerminated              // queues exhausted, removed from container
	StateHalted                  // stopped by a catalog error
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateLooping:
		return "looping"
	case StateAdvancing:
		return "advancing"
	case StateTerminated:
		return "terminated"
	case StateHalted:
		return "halted"
	}
	return "unknown"
}

// Step is the result of TagQueue.Advance: either a tag name or the
// end-of-sequence signal.
type Step struct {
	Tag string
	End bool
}

// EndOfSequence is the Step returned by an exhausted queue.
var EndOfSequence = Step{End: true}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
