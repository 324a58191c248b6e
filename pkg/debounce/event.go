package debounce

// EventKind classifies a debounced event.
type EventKind string

const (
	// KindAny signals that a path received one or more changes and then
	// stayed quiet for at least the configured timeout.
	KindAny EventKind = "any"

	// KindAnyContinuous signals that a path has been receiving changes for
	// at least one full timeout period and is still active. It repeats on
	// every tick until the path goes quiet, so consumers must treat it as a
	// heartbeat, not a one-shot notification.
	KindAnyContinuous EventKind = "any-continuous"
)

// Continuous reports whether the kind is the repeating heartbeat variant.
func (k EventKind) Continuous() bool {
	return k == KindAnyContinuous
}

// Event is a single debounced change notification. It carries no operation
// type on purpose; see the package documentation.
type Event struct {
	// Path is the filesystem path the change was observed on.
	Path string `json:"path"`

	// Kind distinguishes a quiet-period event from a continuous heartbeat.
	Kind EventKind `json:"kind"`
}

// RawEvent is an unprocessed change notification from the watcher backend.
// A single notification may cover several paths (renames typically do).
type RawEvent struct {
	Paths []string
}
