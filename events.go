package tagplay

// EventType identifies a kind of playback event.
type EventType uint8

const (
	EventTagStarted    EventType = iota // a tag began playing
	EventTagLooped                      // a looping tag wrapped to frame 0
	EventQueueSwitched                  // the persist queue took over
	EventTerminated                     // all queues exhausted, sprite removed
	EventHalted                         // playback stopped on a catalog error
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventTagStarted:
		return "tag_started"
	case EventTagLooped:
		return "tag_looped"
	case EventQueueSwitched:
		return "queue_switched"
	case EventTerminated:
		return "terminated"
	case EventHalted:
		return "halted"
	}
	return "unknown"
}

// PlaybackEvent describes a Sprite state transition.
type PlaybackEvent struct {
	Type     EventType
	Sprite   string
	Tag      string
	Mode     Mode
	Duration float64 // expected duration of Tag, for EventTagStarted
	Err      error   // cause, for EventHalted
}

// EventSink receives playback events. Set one on a Stage (or a Sprite) to
// bridge playback into another system.
type EventSink interface {
	EmitEvent(event PlaybackEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event PlaybackEvent)

// EmitEvent calls f.
func (f EventSinkFunc) EmitEvent(event PlaybackEvent) { f(event) }
