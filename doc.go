// Package tagplay sequences sprite animations.
//
// A spritesheet is described by frame identifiers such as "white_Idle_0",
// "white_Idle_1". A [FrameCatalog] groups them into tags ("white_Idle") with
// frames ordered by their numeric suffix. A [TagQueue] yields the tags a
// [Sprite] plays, in order or shuffled, and a Sprite steps through each
// tag's frames on a periodic tick.
//
// # Quick start
//
//	src := tagplay.NewFSSource(os.DirFS("assets"))
//	queue := tagplay.NewTagQueue("white", "Start", "Idle")
//	sprite, err := tagplay.NewSprite("flake", src, "sprites/snowflake", queue, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	stage := tagplay.NewStage()
//	stage.Add(sprite)
//	sprite.Start()
//
//	// each frame:
//	stage.Update(dt)
//	draw(sprite.FrameID())
//
// # Tags and queues
//
// [NewTagQueue] qualifies each token with an animation root ("white_Start").
// A token ending in "*" switches the root for the tokens after it, so one
// queue can span several animation families:
//
//	tagplay.NewTagQueue("hero", "Start", "Cast", "spell*", "Burst")
//	// hero_Start, hero_Cast, spell_Burst
//
// [TagQueue.Randomize] shuffles every tag after the first, which is the rest
// tag and always plays first. With interleave the rest tag plays between
// variants.
//
// # Playback
//
// Tags matching the idle pattern loop until something releases the sprite;
// other tags release to the next tag on completion. When the driving queue
// runs out the persist queue takes over, and without one the sprite
// terminates and leaves its [Container] (usually a [Stage]).
//
// Queues can release other queues or sprites once a tag has completed
// ([TagQueue.SetDependents]) and swap the owner's spritesheet
// ([TagQueue.SetAtlasChange]). Both trigger on the Advance after the one
// that returned the tag, that is once its frames have played out.
//
// # Hosts
//
// The engine never renders and owns no timer. [Clock] is a caller-driven
// [Scheduler]; package ebitenhost drives a Stage from an Ebitengine game
// loop, and the tagplay/ecs module forwards playback events into a
// [Donburi] world. Tweens synced to tag durations are built on [gween].
//
// [Donburi]: https://github.com/yohamta/donburi
// [gween]: https://github.com/tanema/gween
package tagplay
