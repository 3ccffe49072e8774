package tagplay

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields in step with a Sprite's active
// tag: its duration is the tag's expected duration at creation time. Call
// Update(dt) each frame; values are written straight into the fields. If the
// Sprite terminates or halts, the group stops immediately.
//
// There is no global tween manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Sprite
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the fields.
// If the target Sprite has stopped playing, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil {
		if st := g.target.State(); st == StateTerminated || st == StateHalted {
			g.Done = true
			return
		}
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenTag creates a TweenGroup that moves field to `to` over the duration
// of the sprite's active tag, so a motion ends exactly when the tag does.
func TweenTag(s *Sprite, field *float64, to float64, fn ease.TweenFunc) *TweenGroup {
	d := float32(s.AnimTime(s.Tag()))
	g := &TweenGroup{count: 1, target: s}
	g.tweens[0] = gween.New(float32(*field), float32(to), d, fn)
	g.fields[0] = field
	return g
}

// TweenTagXY creates a TweenGroup that moves x and y to (toX, toY) over the
// duration of the sprite's active tag.
func TweenTagXY(s *Sprite, x, y *float64, toX, toY float64, fn ease.TweenFunc) *TweenGroup {
	d := float32(s.AnimTime(s.Tag()))
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(*x), float32(toX), d, fn)
	g.tweens[1] = gween.New(float32(*y), float32(toY), d, fn)
	g.fields[0] = x
	g.fields[1] = y
	return g
}

// TweenTagRGBA creates a TweenGroup that fades four color components
// (r, g, b, a) to the target over the duration of the sprite's active tag.
func TweenTagRGBA(s *Sprite, rgba [4]*float64, to [4]float64, fn ease.TweenFunc) *TweenGroup {
	d := float32(s.AnimTime(s.Tag()))
	g := &TweenGroup{count: 4, target: s}
	for i := range rgba {
		g.tweens[i] = gween.New(float32(*rgba[i]), float32(to[i]), d, fn)
		g.fields[i] = rgba[i]
	}
	return g
}
