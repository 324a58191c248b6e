package debounce

import "time"

// entry is the debounce timing state for a single path.
type entry struct {
	// insert is when the path first entered the cache since its last
	// emission. It detects "active long enough to be continuous" without a
	// dedicated timer or mode flag per path.
	insert time.Time

	// update is when the most recent raw event for the path arrived. It
	// alone detects quiescence.
	update time.Time
}

// store is the per-path dedup cache plus the buffered backend errors.
// It is owned exclusively by the debouncer's loop goroutine and is not safe
// for concurrent use.
type store struct {
	timeout time.Duration
	paths   map[string]entry
	errs    []error
}

func newStore(timeout time.Duration) *store {
	return &store{
		timeout: timeout,
		paths:   make(map[string]entry),
	}
}

// addEvent records a raw event covering one or more paths, stamped with its
// arrival time. Known paths get their update time refreshed; new paths are
// inserted with insert == update == at.
func (s *store) addEvent(paths []string, at time.Time) {
	for _, p := range paths {
		if e, ok := s.paths[p]; ok {
			e.update = at
			s.paths[p] = e

			continue
		}

		s.paths[p] = entry{insert: at, update: at}
	}
}

// addError buffers a backend error for the next tick's error batch.
func (s *store) addError(err error) {
	s.errs = append(s.errs, err)
}

// debouncedEvents finalizes every path that is ready at now. A path quiet
// for at least the timeout emits KindAny and leaves the cache. A path still
// active but cached for at least one full timeout period emits
// KindAnyContinuous and stays, both timestamps untouched, so it keeps
// emitting on every subsequent call until it goes quiet. All other paths
// are retained silently. No cross-path order is guaranteed.
func (s *store) debouncedEvents(now time.Time) []Event {
	var events []Event

	for p, e := range s.paths {
		switch {
		case now.Sub(e.update) >= s.timeout:
			events = append(events, Event{Path: p, Kind: KindAny})
			delete(s.paths, p)
		case now.Sub(e.insert) >= s.timeout:
			events = append(events, Event{Path: p, Kind: KindAnyContinuous})
		}
	}

	return events
}

// takeErrors returns all buffered errors in arrival order and resets the
// queue.
func (s *store) takeErrors() []error {
	errs := s.errs
	s.errs = nil

	return errs
}
