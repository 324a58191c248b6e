package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/fsdebounce/pkg/debounce"
)

// Encoder renders a batch of debounced events to bytes.
type Encoder interface {
	Encode(events []debounce.Event) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// TextEncoder renders one human-readable line per event:
//
//	15:04:05  changed         /path/to/file
//	15:04:05  still changing  /path/to/other
type TextEncoder struct {
	// NoColor disables ANSI colors.
	NoColor bool

	// Clock overrides the timestamp source; nil means time.Now.
	Clock func() time.Time
}

var (
	changedLabel  = color.New(color.FgGreen).SprintFunc()
	changingLabel = color.New(color.FgYellow).SprintFunc()
)

// Encode implements Encoder.
func (e *TextEncoder) Encode(events []debounce.Event) ([]byte, error) {
	now := time.Now
	if e.Clock != nil {
		now = e.Clock
	}

	stamp := now().Format("15:04:05")

	var buf bytes.Buffer

	for _, event := range events {
		label, colorize := "changed        ", changedLabel
		if event.Kind.Continuous() {
			label, colorize = "still changing ", changingLabel
		}

		if e.NoColor {
			fmt.Fprintf(&buf, "%s  %s %s\n", stamp, label, event.Path)
		} else {
			fmt.Fprintf(&buf, "%s  %s %s\n", stamp, colorize(label), event.Path)
		}
	}

	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// JSONEncoder renders events as newline-delimited JSON, one object per
// event, suitable for piping into jq or log shippers.
type JSONEncoder struct{}

// Encode implements Encoder.
func (JSONEncoder) Encode(events []debounce.Event) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	for _, event := range events {
		if err := enc.Encode(event); err != nil {
			return nil, fmt.Errorf("encoding event for %q: %w", event.Path, err)
		}
	}

	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

// YAMLEncoder renders each batch as a YAML document.
type YAMLEncoder struct{}

// Encode implements Encoder.
func (YAMLEncoder) Encode(events []debounce.Event) ([]byte, error) {
	type yamlEvent struct {
		Path string `yaml:"path"`
		Kind string `yaml:"kind"`
	}

	doc := make([]yamlEvent, 0, len(events))
	for _, event := range events {
		doc = append(doc, yamlEvent{Path: event.Path, Kind: string(event.Kind)})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding event batch: %w", err)
	}

	return append([]byte("---\n"), data...), nil
}
