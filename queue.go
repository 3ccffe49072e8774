package tagplay

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"weak"
)

// RootMarker ends a tag token that switches the animation root instead of
// naming a tag.
const RootMarker = "*"

// Releaser is anything a queue can release when one of its tags completes.
type Releaser interface {
	Release() error
}

// AssembleTags qualifies each token with the current root as "root_token".
// A token ending in RootMarker is not emitted; it replaces the root for the
// tokens that follow. Empty tokens are skipped.
//
//	AssembleTags("white", "Start", "Idle", "black*", "Start")
//	// ["white_Start", "white_Idle", "black_Start"]
func AssembleTags(root string, tokens ...string) []string {
	tags := make([]string, 0, len(tokens))
	cur := root
	for _, t := range tokens {
		switch {
		case t == "":
		case strings.HasSuffix(t, RootMarker):
			cur = strings.TrimSuffix(t, RootMarker)
		default:
			tags = append(tags, cur+"_"+t)
		}
	}
	return tags
}

// TagQueue generates the ordered tag names a Sprite plays. The first tag of
// the base sequence is the rest tag: it stays first in every randomized
// pass. A queue is bound to at most one Sprite.
type TagQueue struct {
	tags        []string
	cur         []string
	pos         int
	random      bool
	interleave  bool
	autoRelease bool

	dependents  map[string][]Releaser
	atlasChange map[string]string

	// lastStep is the tag most recently returned by Advance; its triggers
	// fire on the next Advance call.
	lastStep string
	pending  bool

	owner weak.Pointer[Sprite]
	bound bool
	rng   *rand.Rand
}

// NewTagQueue creates a queue from an animation root and tag tokens, see
// AssembleTags.
func NewTagQueue(root string, tokens ...string) *TagQueue {
	tags := AssembleTags(root, tokens...)
	return &TagQueue{
		tags:        tags,
		cur:         slices.Clone(tags),
		dependents:  make(map[string][]Releaser),
		atlasChange: make(map[string]string),
	}
}

// SetAutoRelease sets whether the owning Sprite flows through idle tags
// instead of looping them.
func (q *TagQueue) SetAutoRelease(auto bool) *TagQueue {
	q.autoRelease = auto
	return q
}

// SetRand sets the random source used by Randomize. A nil source restores
// the global one.
func (q *TagQueue) SetRand(r *rand.Rand) *TagQueue {
	q.rng = r
	return q
}

// Randomize shuffles every tag after the rest tag. With interleave set the
// rest tag is placed before each variant: rest, v1, rest, v2, ... Interleave
// is sticky; once set it stays set for later randomizations.
func (q *TagQueue) Randomize(interleave bool) *TagQueue {
	q.random = true
	if interleave {
		q.interleave = true
	}
	if len(q.tags) == 0 {
		q.cur = nil
		return q
	}
	rest := q.tags[0]
	variants := slices.Clone(q.tags[1:])
	q.shuffle(len(variants), func(i, j int) {
		variants[i], variants[j] = variants[j], variants[i]
	})

	cur := make([]string, 0, 2*len(variants)+1)
	cur = append(cur, rest)
	for i, v := range variants {
		if q.interleave && i > 0 {
			cur = append(cur, rest)
		}
		cur = append(cur, v)
	}
	q.cur = cur
	return q
}

func (q *TagQueue) shuffle(n int, swap func(i, j int)) {
	if q.rng != nil {
		q.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// Reset rewinds the queue. A randomized queue is reshuffled so that each
// pass varies. Triggers of a tag that had not completed are dropped.
func (q *TagQueue) Reset() {
	q.pos = 0
	q.pending = false
	q.lastStep = ""
	if q.random {
		q.Randomize(false)
	}
}

// Advance returns the next tag, or EndOfSequence once the current sequence
// is exhausted.
//
// Triggers registered for the previously returned tag fire at the start of
// the following call: its atlas change relinks the owning Sprite, then its
// dependents are released in registration order. Triggers fire once, so the
// first exhausted call still fires the final tag's triggers and later calls
// change nothing.
func (q *TagQueue) Advance() (Step, error) {
	if q.pending {
		q.pending = false
		if err := q.fireTriggers(q.lastStep); err != nil {
			return Step{}, err
		}
	}
	if q.pos >= len(q.cur) {
		return EndOfSequence, nil
	}
	tag := q.cur[q.pos]
	q.pos++
	q.lastStep = tag
	q.pending = true
	return Step{Tag: tag}, nil
}

func (q *TagQueue) fireTriggers(tag string) error {
	if sheet, ok := q.atlasChange[tag]; ok {
		owner := q.Owner()
		if owner == nil {
			return fmt.Errorf("atlas change on %q: %w", tag, ErrUnboundQueueRelease)
		}
		if _, err := owner.Link(sheet, nil); err != nil {
			return fmt.Errorf("atlas change on %q: %w", tag, err)
		}
	}
	for _, dep := range q.dependents[tag] {
		if err := dep.Release(); err != nil {
			return fmt.Errorf("release dependent of %q: %w", tag, err)
		}
	}
	return nil
}

// SetDependents registers what to release once a tag has completed. Each
// value may be a *TagQueue, *Sprite or Releaser, or a slice of any of those;
// single values become one-element groups. The mapping replaces any earlier
// one. Other value types fail with ErrInvalidDependentType and leave the
// queue unchanged.
func (q *TagQueue) SetDependents(deps map[string]any) (*TagQueue, error) {
	normalized := make(map[string][]Releaser, len(deps))
	for tag, v := range deps {
		group, err := toReleasers(v)
		if err != nil {
			return q, fmt.Errorf("dependents for %q: %w", tag, err)
		}
		normalized[tag] = group
	}
	q.dependents = normalized
	return q, nil
}

func toReleasers(v any) ([]Releaser, error) {
	switch d := v.(type) {
	case *TagQueue:
		if d == nil {
			break
		}
		return []Releaser{d}, nil
	case *Sprite:
		if d == nil {
			break
		}
		return []Releaser{spriteReleaser{d}}, nil
	case []*TagQueue:
		group := make([]Releaser, 0, len(d))
		for _, tq := range d {
			if tq == nil {
				return nil, ErrInvalidDependentType
			}
			group = append(group, tq)
		}
		return group, nil
	case []*Sprite:
		group := make([]Releaser, 0, len(d))
		for _, s := range d {
			if s == nil {
				return nil, ErrInvalidDependentType
			}
			group = append(group, spriteReleaser{s})
		}
		return group, nil
	case []Releaser:
		if slices.Contains(d, nil) {
			break
		}
		return slices.Clone(d), nil
	case Releaser:
		if d == nil {
			break
		}
		return []Releaser{d}, nil
	}
	return nil, fmt.Errorf("%w, got %T", ErrInvalidDependentType, v)
}

// spriteReleaser adapts a Sprite to Releaser.
type spriteReleaser struct{ s *Sprite }

func (r spriteReleaser) Release() error {
	_, err := r.s.Release()
	return err
}

// SetAtlasChange registers spritesheets the owning Sprite relinks to once a
// tag has completed. The mapping replaces any earlier one.
func (q *TagQueue) SetAtlasChange(sheets map[string]string) *TagQueue {
	q.atlasChange = maps.Clone(sheets)
	if q.atlasChange == nil {
		q.atlasChange = make(map[string]string)
	}
	return q
}

// SetOwner binds the queue to a Sprite. The queue holds only a weak
// reference. Binding again to the same Sprite is a no-op; binding to a
// different live Sprite fails with ErrOwnerConflict.
func (q *TagQueue) SetOwner(owner any) error {
	s, ok := owner.(*Sprite)
	if !ok || s == nil {
		return fmt.Errorf("%w: passed object type = %T", ErrInvalidOwnerType, owner)
	}
	if cur := q.Owner(); cur != nil && cur != s {
		return fmt.Errorf("%w: %q", ErrOwnerConflict, cur.Name())
	}
	q.owner = weak.Make(s)
	q.bound = true
	return nil
}

// Owner returns the owning Sprite, or nil when unbound or collected.
func (q *TagQueue) Owner() *Sprite {
	if !q.bound {
		return nil
	}
	return q.owner.Value()
}

// Release releases the owning Sprite to its next tag.
func (q *TagQueue) Release() error {
	owner := q.Owner()
	if owner == nil {
		return ErrUnboundQueueRelease
	}
	_, err := owner.Release()
	return err
}

// Tags returns the base sequence.
func (q *TagQueue) Tags() []string { return slices.Clone(q.tags) }

// CurTags returns the sequence of the current pass.
func (q *TagQueue) CurTags() []string { return slices.Clone(q.cur) }

// IsRandom reports whether Randomize has been called.
func (q *TagQueue) IsRandom() bool { return q.random }

// Interleaved reports whether randomized passes interleave the rest tag.
func (q *TagQueue) Interleaved() bool { return q.interleave }

// AutoRelease reports whether idle tags flow on instead of looping.
func (q *TagQueue) AutoRelease() bool { return q.autoRelease }

// Pos returns the cursor position.
func (q *TagQueue) Pos() int { return q.pos }

// Exhausted reports whether the cursor has reached the end of the pass.
func (q *TagQueue) Exhausted() bool { return q.pos >= len(q.cur) }

// LastStep returns the tag most recently returned by Advance.
func (q *TagQueue) LastStep() string { return q.lastStep }

// Dependents returns the releasers registered for tag.
func (q *TagQueue) Dependents(tag string) []Releaser {
	return slices.Clone(q.dependents[tag])
}

// AtlasChange returns the spritesheet registered for tag.
func (q *TagQueue) AtlasChange(tag string) (string, bool) {
	sheet, ok := q.atlasChange[tag]
	return sheet, ok
}
