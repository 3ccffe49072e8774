package tagplay

import (
	"fmt"
	"log"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Stage debug flag so that sprite
// and queue operations (which lack a Stage pointer) can check it cheaply.
// Only valid with a single Stage.
var globalDebug bool

func debugf(format string, args ...any) {
	if globalDebug {
		log.Printf("tagplay: "+format, args...)
	}
}

// debugStats holds per-update timing and sprite counts.
// Only populated when Stage.debug is true.
type debugStats struct {
	tickTime    time.Duration
	sprites     int
	looping     int
	advancing   int
	scheduled   int
	removedThis int
}

// debugLog prints update stats to stderr.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[tagplay] tick: %v | sprites: %d (looping %d, advancing %d) | scheduled: %d | removed: %d\n",
		stats.tickTime, stats.sprites, stats.looping, stats.advancing, stats.scheduled, stats.removedThis)
}
