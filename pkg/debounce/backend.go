package debounce

// Backend is the filesystem-observation capability consumed by the
// debouncer. Implementations deliver raw events and errors through the
// callbacks handed to their BackendFactory, from whatever goroutine(s) they
// own. The debouncer assumes no ordering or deduplication guarantees beyond
// "notifications eventually arrive".
type Backend interface {
	// Add registers a path for watching.
	Add(path string) error

	// Remove unregisters a previously added path.
	Remove(path string) error

	// Close releases the backend's resources. No callback is invoked after
	// Close returns.
	Close() error
}

// BackendFactory constructs a Backend wired to the given callbacks. The
// callbacks are safe to invoke from any goroutine and never block once the
// debouncer has been stopped.
type BackendFactory func(onEvent func(RawEvent), onError func(error)) (Backend, error)
