// Package watch wires the debounce engine to the CLI: it builds a filtered
// fsnotify backend, registers the requested paths, forwards debounced event
// batches to a caller-supplied function, and handles signal-driven shutdown.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/fsdebounce/internal/filter"
	"github.com/hupe1980/fsdebounce/pkg/debounce"
)

// RunFunc is called with each debounced event batch.
type RunFunc func(ctx context.Context, events []debounce.Event) error

// Options configures the watch behaviour.
type Options struct {
	// Paths are the files and directories to watch.
	Paths []string

	// Timeout is the quiet period before a path's changes are finalized.
	Timeout time.Duration

	// Tick overrides the debouncer's loop cadence; zero derives timeout/4.
	Tick time.Duration

	// Recursive watches directories including their subdirectories.
	Recursive bool

	// Exclude lists glob patterns for paths whose events are dropped.
	Exclude []string

	// IncludeHidden disables the hidden-file and temp-file filters.
	IncludeHidden bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Paths:     []string{"."},
		Timeout:   500 * time.Millisecond,
		Recursive: true,
		Logger:    slog.Default(),
		Out:       os.Stderr,
	}
}

// Run starts the debounced watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. Backend errors are logged and the
// watcher keeps running; only setup failures return an error.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := debounce.HandlerFuncs{
		OnEvents: func(events []debounce.Event) {
			if err := runFn(sigCtx, events); err != nil {
				fmt.Fprintf(opts.Out, "[%s] ERROR: %v\n", time.Now().Format("15:04:05"), err)
			}
		},
		OnErrors: func(errs []error) {
			for _, err := range errs {
				opts.Logger.Error("watch backend error", slog.String("error", err.Error()))
			}
		},
	}

	var debounceOpts []debounce.Option

	debounceOpts = append(debounceOpts, debounce.WithBackend(backendFactory(opts)))

	if opts.Tick > 0 {
		debounceOpts = append(debounceOpts, debounce.WithTickRate(opts.Tick))
	}

	d, err := debounce.New(opts.Timeout, handler, debounceOpts...)
	if err != nil {
		return fmt.Errorf("creating debouncer: %w", err)
	}

	for _, p := range opts.Paths {
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			d.Stop() //nolint:errcheck

			return fmt.Errorf("resolving path %q: %w", p, absErr)
		}

		if addErr := d.Watcher().Add(abs); addErr != nil {
			d.Stop() //nolint:errcheck

			return fmt.Errorf("watching %q: %w", p, addErr)
		}
	}

	fmt.Fprintf(opts.Out, "watching %s (timeout=%s, recursive=%t)\n",
		strings.Join(opts.Paths, ", "), opts.Timeout, opts.Recursive)

	<-sigCtx.Done()

	fmt.Fprintln(opts.Out, "shutting down watcher")

	return d.Stop()
}

// backendFactory builds the fsnotify factory with the configured filter
// chain applied, so excluded paths never reach the debounce cache.
func backendFactory(opts Options) debounce.BackendFactory {
	factory := debounce.NewFSNotifyBackend(opts.Recursive)

	var chain filter.Chain

	if opts.IncludeHidden {
		if len(opts.Exclude) > 0 {
			chain = filter.Chain{filter.NewPatternFilter(opts.Exclude...)}
		}
	} else {
		chain = filter.Default(opts.Exclude...)
	}

	if len(chain) == 0 {
		return factory
	}

	return filteredFactory(factory, chain)
}

// filteredFactory wraps factory so raw events for excluded paths are dropped
// before they reach the debouncer.
func filteredFactory(factory debounce.BackendFactory, f filter.Filter) debounce.BackendFactory {
	return func(onEvent func(debounce.RawEvent), onError func(error)) (debounce.Backend, error) {
		filtered := func(event debounce.RawEvent) {
			kept := event.Paths[:0:0]

			for _, p := range event.Paths {
				if !f.Exclude(p) {
					kept = append(kept, p)
				}
			}

			if len(kept) > 0 {
				onEvent(debounce.RawEvent{Paths: kept})
			}
		}

		return factory(filtered, onError)
	}
}
