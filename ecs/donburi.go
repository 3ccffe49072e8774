package ecs

import (
	"github.com/phanxgames/tagplay"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PlaybackEventType is the Donburi event type for tagplay playback events.
var PlaybackEventType = events.NewEventType[tagplay.PlaybackEvent]()

// SpriteComponent attaches a tagplay Sprite to an entity.
var SpriteComponent = donburi.NewComponentType[SpriteData]()

// SpriteData is the component payload for SpriteComponent.
type SpriteData struct {
	Sprite *tagplay.Sprite
}

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to PlaybackEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) tagplay.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event tagplay.PlaybackEvent) {
	PlaybackEventType.Publish(s.world, event)
}

// AddSprite creates an entity carrying sp.
func AddSprite(world donburi.World, sp *tagplay.Sprite) donburi.Entity {
	e := world.Create(SpriteComponent)
	SpriteComponent.Get(world.Entry(e)).Sprite = sp
	return e
}

// RemoveTerminated deletes entities whose sprite has terminated and returns
// how many were removed. Subscribe it to PlaybackEventType, or call it from
// a system.
func RemoveTerminated(world donburi.World) int {
	var dead []donburi.Entity
	SpriteComponent.Each(world, func(entry *donburi.Entry) {
		sp := SpriteComponent.Get(entry).Sprite
		if sp == nil || sp.State() == tagplay.StateTerminated {
			dead = append(dead, entry.Entity())
		}
	})
	for _, e := range dead {
		world.Remove(e)
	}
	return len(dead)
}
