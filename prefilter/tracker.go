package prefilter

// Tracker measures how often a prefilter's candidates turn into matches and
// retires the prefilter when too few do. A literal like "e" in English text
// yields a candidate every few bytes; past some false positive rate,
// verifying each one costs more than scanning every position.
//
// A Tracker belongs to a single search and is not safe for concurrent use.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	for tracker.IsActive() {
//	    pos := tracker.Find(haystack, start)
//	    if pos == -1 {
//	        break
//	    }
//	    if verify(haystack, pos) {
//	        tracker.ConfirmMatch()
//	    }
//	    start = pos + 1
//	}
type Tracker struct {
	inner  Prefilter
	config TrackerConfig

	candidates uint64
	confirms   uint64
	checkpoint uint64
	active     bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness, in candidates.
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the lowest acceptable ratio of confirms to
	// candidates. Default: 0.1
	MinEfficiency float64

	// WarmupPeriod is the number of candidates seen before the first check.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a new tracker for the given prefilter with default config.
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a new tracker with custom configuration.
// Returns nil if the inner prefilter is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	if config.CheckInterval == 0 {
		config.CheckInterval = 1
	}
	return &Tracker{inner: inner, config: config, active: true}
}

// Find returns the inner prefilter's next candidate, or -1 once the tracker
// is retired. Callers distinguish the two with IsActive.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return -1
	}
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.check()
	}
	return pos
}

// ConfirmMatch records that the last candidate was a real match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsActive returns true if the prefilter is still being used.
func (t *Tracker) IsActive() bool {
	return t.active
}

// Stats returns the current tracking statistics.
func (t *Tracker) Stats() (candidates, confirms uint64, efficiency float64, active bool) {
	if t.candidates > 0 {
		efficiency = float64(t.confirms) / float64(t.candidates)
	}
	return t.candidates, t.confirms, efficiency, t.active
}

// Reset clears statistics and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.candidates, t.confirms, t.checkpoint = 0, 0, 0
	t.active = true
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// check retires the prefilter when efficiency is below the threshold,
// once past warmup and at most once per interval.
func (t *Tracker) check() {
	if t.candidates < t.config.WarmupPeriod || t.candidates-t.checkpoint < t.config.CheckInterval {
		return
	}
	t.checkpoint = t.candidates
	if float64(t.confirms)/float64(t.candidates) < t.config.MinEfficiency {
		t.active = false
	}
}
