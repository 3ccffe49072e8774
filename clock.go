package tagplay

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler registers periodic callbacks. It is the only capability a
// Sprite needs from its host.
type Scheduler interface {
	// Schedule calls fn every interval seconds with the time elapsed since
	// the previous call.
	Schedule(interval float64, fn func(dt float64)) Handle
}

// clockEpsilon absorbs float drift when summing tick deltas.
const clockEpsilon = 1e-9

type clockEntry struct {
	interval  float64
	elapsed   float64
	fn        func(dt float64)
	cancelled bool
}

func (e *clockEntry) Cancel() { e.cancelled = true }

// Clock is a caller-driven Scheduler. The host calls Advance once per frame;
// each entry fires at most once per Advance. Entries scheduled during an
// Advance start counting on the next one.
//
// There is no locking: a Clock belongs to one goroutine.
type Clock struct {
	entries []*clockEntry
	now     float64
}

// NewClock creates an empty clock.
func NewClock() *Clock {
	return &Clock{}
}

// Schedule implements Scheduler. A non-positive interval fires on every
// Advance.
func (c *Clock) Schedule(interval float64, fn func(dt float64)) Handle {
	e := &clockEntry{interval: interval, fn: fn}
	c.entries = append(c.entries, e)
	return e
}

// Advance moves the clock forward by dt seconds and fires due entries in
// registration order.
func (c *Clock) Advance(dt float64) {
	c.now += dt
	n := len(c.entries)
	for i := 0; i < n; i++ {
		e := c.entries[i]
		if e.cancelled {
			continue
		}
		e.elapsed += dt
		if e.elapsed+clockEpsilon < e.interval {
			continue
		}
		elapsed := e.elapsed
		e.elapsed = 0
		e.fn(elapsed)
	}
	c.compact()
}

// compact drops cancelled entries, keeping order.
func (c *Clock) compact() {
	live := c.entries[:0]
	for _, e := range c.entries {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(c.entries); i++ {
		c.entries[i] = nil
	}
	c.entries = live
}

// Now returns the total time advanced.
func (c *Clock) Now() float64 { return c.now }

// Pending returns the number of live entries.
func (c *Clock) Pending() int {
	count := 0
	for _, e := range c.entries {
		if !e.cancelled {
			count++
		}
	}
	return count
}
