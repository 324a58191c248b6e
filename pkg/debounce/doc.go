// Package debounce collapses the raw, per-write notification stream of a
// filesystem watcher into a rate-limited stream of per-path change signals.
//
// A backend (by default fsnotify) may report many notifications per second
// for a single file. The debouncer caches the first and most recent arrival
// time per path and, on a fixed tick cadence, finalizes whatever is ready:
// a path that stayed quiet for the configured timeout emits a single
// [KindAny] event; a path under sustained modification emits a repeating
// [KindAnyContinuous] heartbeat on every tick until it finally goes quiet.
//
// The debouncer deliberately does not distinguish between create, write,
// remove, and rename operations. Every raw notification collapses to an
// undifferentiated "changed" signal, which keeps the dedup logic independent
// of backend-specific event taxonomies.
package debounce
