package tagplay

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// frameNamePattern splits a frame identifier into its tag prefix and
// trailing frame index.
var frameNamePattern = regexp.MustCompile(`^(.*\D)(\d+)$`)

// GroupFrames groups frame identifiers by their non-numeric prefix.
// One trailing separator is dropped from the prefix, so "white_Idle_3"
// belongs to tag "white_Idle". Names without a numeric suffix are skipped.
// Groups keep input order; NewFrameCatalog sorts them.
func GroupFrames(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range names {
		tag, _, ok := splitFrameName(name)
		if !ok {
			continue
		}
		groups[tag] = append(groups[tag], name)
	}
	return groups
}

func splitFrameName(name string) (tag string, index int, ok bool) {
	m := frameNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	prefix := m[1]
	if n := len(prefix); n > 1 && strings.ContainsRune("_ -", rune(prefix[n-1])) {
		prefix = prefix[:n-1]
	}
	return prefix, idx, true
}

// FrameCatalog maps fully-qualified tag names to their ordered frame
// identifiers. It is immutable once built.
type FrameCatalog struct {
	frames map[string][]string
}

// NewFrameCatalog copies groups and orders each by the numeric suffix of its
// frame identifiers. Identifiers without a suffix sort first.
func NewFrameCatalog(groups map[string][]string) *FrameCatalog {
	c := &FrameCatalog{frames: make(map[string][]string, len(groups))}
	for tag, names := range groups {
		sorted := slices.Clone(names)
		slices.SortStableFunc(sorted, func(a, b string) int {
			_, ia, _ := splitFrameName(a)
			_, ib, _ := splitFrameName(b)
			return ia - ib
		})
		c.frames[tag] = sorted
	}
	return c
}

// Frame returns the identifier of frame index within tag.
func (c *FrameCatalog) Frame(tag string, index int) (string, error) {
	frames, ok := c.frames[tag]
	if !ok || index < 0 || index >= len(frames) {
		return "", fmt.Errorf("%w: tag %q index %d", ErrFrameNotFound, tag, index)
	}
	return frames[index], nil
}

// Frames returns a copy of the ordered frame identifiers for tag.
func (c *FrameCatalog) Frames(tag string) []string {
	return slices.Clone(c.frames[tag])
}

// Len returns the frame count of tag, or 0 when the tag is unknown.
func (c *FrameCatalog) Len(tag string) int {
	return len(c.frames[tag])
}

// Has reports whether tag is in the catalog.
func (c *FrameCatalog) Has(tag string) bool {
	_, ok := c.frames[tag]
	return ok
}

// Tags returns every tag in the catalog, sorted.
func (c *FrameCatalog) Tags() []string {
	tags := make([]string, 0, len(c.frames))
	for tag := range c.frames {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
