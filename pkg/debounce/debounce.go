package debounce

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// defaultBufferSize is the capacity of the raw-message channel between
	// the backend callbacks and the loop goroutine.
	defaultBufferSize = 1024

	// tickDivisor derives the default tick rate from the timeout.
	tickDivisor = 4
)

type options struct {
	tickRate   time.Duration
	factory    BackendFactory
	bufferSize int
}

// Option configures a Debouncer.
type Option func(*options)

// WithTickRate sets the cadence of the background loop. It must be positive
// and must not exceed the debounce timeout; a tick slower than the timeout
// could miss continuous-event opportunities or observe quiescence late.
// When unset, timeout/4 is used.
func WithTickRate(d time.Duration) Option {
	return func(o *options) {
		o.tickRate = d
	}
}

// WithBackend replaces the default fsnotify backend. Any implementation of
// the BackendFactory contract works; tests typically inject a fake.
func WithBackend(factory BackendFactory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// WithBufferSize overrides the raw-message channel capacity (default 1024).
// A full buffer blocks the backend callback until the loop catches up.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// message is a raw notification in flight between a backend callback and the
// loop goroutine, stamped with its arrival time so tick cadence does not skew
// quiescence detection.
type message struct {
	paths []string
	err   error
	at    time.Time
}

// Debouncer owns the watcher backend and the loop goroutine that drains the
// per-path cache. Construct it with New; tear it down with Stop or
// StopNonblocking. There is no implicit teardown: a Debouncer that is never
// stopped keeps its loop goroutine and backend alive.
type Debouncer struct {
	backend  Backend
	msgs     chan message
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New builds a debouncer that watches nothing yet. timeout is the quiet
// period after which a path's accumulated changes are finalized as a single
// event. handler receives the finalized batches. Use the Watcher accessor to
// register paths.
//
// New validates the tick rate before creating the backend or spawning the
// loop goroutine, so a configuration error leaves no resources behind.
func New(timeout time.Duration, handler Handler, opts ...Option) (*Debouncer, error) {
	if handler == nil {
		return nil, errors.New("handler must not be nil")
	}

	o := options{
		factory:    NewFSNotifyBackend(false),
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(&o)
	}

	tick := o.tickRate

	switch {
	case tick == 0:
		tick = timeout / tickDivisor
		if tick <= 0 {
			return nil, fmt.Errorf("cannot derive tick rate from timeout %s", timeout)
		}
	case tick < 0:
		return nil, fmt.Errorf("invalid tick rate %s: must be positive", tick)
	case tick > timeout:
		return nil, fmt.Errorf("invalid tick rate %s: exceeds timeout %s", tick, timeout)
	}

	d := &Debouncer{
		msgs: make(chan message, o.bufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	backend, err := o.factory(d.onRawEvent, d.onRawError)
	if err != nil {
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	d.backend = backend

	go d.loop(newStore(timeout), handler, tick)

	return d, nil
}

// Watcher exposes the backend handle for dynamic path registration while the
// debouncer is running.
func (d *Debouncer) Watcher() Backend {
	return d.backend
}

// Done is closed once the loop goroutine has exited. It lets callers of
// StopNonblocking observe completion without blocking.
func (d *Debouncer) Done() <-chan struct{} {
	return d.done
}

// Stop shuts the debouncer down and blocks until the loop goroutine has
// exited. No handler call happens after Stop returns; the wait is bounded by
// one tick plus whatever handler call is in flight. Stop is idempotent and
// returns the backend's Close error, if any.
func (d *Debouncer) Stop() error {
	err := d.signalStop()
	<-d.done

	return err
}

// StopNonblocking shuts the debouncer down without waiting for the loop
// goroutine. At most one more handler call may still occur; use Done to
// observe completion.
func (d *Debouncer) StopNonblocking() error {
	return d.signalStop()
}

func (d *Debouncer) signalStop() error {
	var err error

	d.stopOnce.Do(func() {
		close(d.stop)
		err = d.backend.Close()
	})

	return err
}

// onRawEvent is invoked by the backend for every raw notification. It stamps
// the arrival time and hands off to the loop goroutine. Once the debouncer
// is stopped the event is discarded instead of blocking the backend.
func (d *Debouncer) onRawEvent(event RawEvent) {
	if len(event.Paths) == 0 {
		return
	}

	select {
	case d.msgs <- message{paths: event.Paths, at: time.Now()}:
	case <-d.stop:
	}
}

// onRawError buffers a backend error for the next tick's error batch.
// Backend errors never stop the engine.
func (d *Debouncer) onRawError(err error) {
	select {
	case d.msgs <- message{err: err}:
	case <-d.stop:
	}
}

// loop exclusively owns the store. Raw messages are applied as they arrive;
// on each tick the queue is drained, the cache finalized, and the resulting
// batches dispatched: events first, then errors, each in its own handler
// call and only when non-empty.
func (d *Debouncer) loop(s *store, handler Handler, tick time.Duration) {
	defer close(d.done)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		// Prefer the stop signal over a simultaneously ready tick.
		select {
		case <-d.stop:
			return
		default:
		}

		select {
		case <-d.stop:
			return

		case m := <-d.msgs:
			apply(s, m)

		case <-ticker.C:
			d.drain(s)

			events := s.debouncedEvents(time.Now())
			errs := s.takeErrors()

			if len(events) > 0 {
				handler.HandleEvents(events)
			}

			if len(errs) > 0 {
				handler.HandleErrors(errs)
			}
		}
	}
}

// drain applies every queued message so that notifications which arrived
// before this tick are considered by it.
func (d *Debouncer) drain(s *store) {
	for {
		select {
		case m := <-d.msgs:
			apply(s, m)
		default:
			return
		}
	}
}

func apply(s *store, m message) {
	if m.err != nil {
		s.addError(m.err)

		return
	}

	s.addEvent(m.paths, m.at)
}
