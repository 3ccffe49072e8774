// Package ecs bridges tagplay playback into a Donburi ECS world.
//
// Attach the sink to a Stage and subscribe to PlaybackEventType in your
// systems:
//
//	world := donburi.NewWorld()
//	stage.SetEventSink(ecs.NewDonburiSink(world))
//
//	ecs.PlaybackEventType.Subscribe(world, func(w donburi.World, e tagplay.PlaybackEvent) {
//		// react to tag starts, persist switches, terminations
//	})
//
//	// once per frame, after stage.Update:
//	ecs.PlaybackEventType.ProcessEvents(world)
package ecs
