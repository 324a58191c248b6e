package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fsdebounce/internal/config"
	"github.com/hupe1980/fsdebounce/internal/logging"
	"github.com/hupe1980/fsdebounce/internal/output"
	"github.com/hupe1980/fsdebounce/internal/watch"
	"github.com/hupe1980/fsdebounce/pkg/debounce"
)

type watchOptions struct {
	timeout       time.Duration
	tick          time.Duration
	recursive     bool
	exclude       []string
	includeHidden bool
	format        string
	output        string
	execCmd       string
	execTimeout   time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Watch paths and emit debounced change events",
		Long: `Watch monitors files and directories and emits one coarse event per
path once its changes settle, instead of one event per raw filesystem
notification.

A path that goes quiet for the configured timeout emits a single
"changed" event. A path under sustained modification emits a repeating
"still changing" heartbeat until the writes stop.

Events are printed to stdout in text, JSON, or YAML format. Use --exec
to run a command after each batch; the changed paths are passed in the
FSDEBOUNCE_CHANGED environment variable.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "quiet period before changes are finalized")
	f.DurationVar(&opts.tick, "tick", 0, "loop cadence (default: timeout/4)")
	f.BoolVarP(&opts.recursive, "recursive", "r", true, "watch directories recursively")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns for paths to ignore")
	f.BoolVar(&opts.includeHidden, "include-hidden", false, "do not filter hidden and temp files")
	f.StringVarP(&opts.format, "format", "f", "", "output format: text, json, yaml")
	f.StringVarP(&opts.output, "output", "o", "", "append events to file instead of stdout")
	f.StringVar(&opts.execCmd, "exec", "", "command to run after each event batch")
	f.DurationVar(&opts.execTimeout, "exec-timeout", 30*time.Second, "timeout for the --exec command")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	// Config file and env provide defaults; explicit flags win.
	if !cmd.Flags().Changed("timeout") {
		opts.timeout = cfg.Timeout
	}

	if !cmd.Flags().Changed("tick") {
		opts.tick = cfg.Tick
	}

	if !cmd.Flags().Changed("recursive") {
		opts.recursive = cfg.Recursive
	}

	if len(opts.exclude) == 0 {
		opts.exclude = cfg.Exclude
	}

	if opts.format == "" {
		opts.format = cfg.Format
	}

	registry := output.DefaultRegistry(cfg.NoColor)

	encoder, err := registry.Encoder(opts.format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	var writer output.Writer
	if opts.output != "" {
		writer = output.NewFileWriter(opts.output, output.WithLogger(logger))
	} else {
		writer = output.NewStdoutWriter(cmd.OutOrStdout())
	}

	runFn := func(fnCtx context.Context, events []debounce.Event) error {
		data, encErr := encoder.Encode(events)
		if encErr != nil {
			return fmt.Errorf("encoding events: %w", encErr)
		}

		if writeErr := writer.Write(data); writeErr != nil {
			return fmt.Errorf("writing events: %w", writeErr)
		}

		if opts.execCmd != "" {
			runExec(fnCtx, cmd, opts, events)
		}

		return nil
	}

	watchOpts := watch.Options{
		Paths:         args,
		Timeout:       opts.timeout,
		Tick:          opts.tick,
		Recursive:     opts.recursive,
		Exclude:       opts.exclude,
		IncludeHidden: opts.includeHidden,
		Logger:        logger,
		Out:           cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}

// runExec runs the --exec command for a batch. Failures are reported but do
// not stop the watcher.
func runExec(ctx context.Context, cmd *cobra.Command, opts *watchOptions, events []debounce.Event) {
	fields := strings.Fields(opts.execCmd)
	if len(fields) == 0 {
		return
	}

	binPath, err := exec.LookPath(fields[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "  exec: %s not found on PATH\n", fields[0])
		return
	}

	execCtx, cancel := context.WithTimeout(ctx, opts.execTimeout)
	defer cancel()

	paths := make([]string, 0, len(events))
	for _, e := range events {
		paths = append(paths, e.Path)
	}

	c := exec.CommandContext(execCtx, binPath, fields[1:]...) //nolint:gosec
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	c.Env = append(c.Environ(), "FSDEBOUNCE_CHANGED="+strings.Join(paths, " "))

	if runErr := c.Run(); runErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "  exec: FAILED: %v\n", runErr)
	}
}
