package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps format names to Encoders, enabling pluggable event output
// formats for the watch command.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds an encoder under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = enc
}

// Encoder returns the encoder for the given format, or an error if not found.
func (r *Registry) Encoder(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, joinFormats(r.formats()))
	}

	return enc, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formats()
}

// formats collects the sorted names; callers must hold the lock.
func (r *Registry) formats() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	return joinFormats(r.Formats())
}

func joinFormats(formats []string) string {
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats: text, json, yaml.
func DefaultRegistry(noColor bool) *Registry {
	r := NewRegistry()

	r.Register("text", &TextEncoder{NoColor: noColor})
	r.Register("json", JSONEncoder{})
	r.Register("yaml", YAMLEncoder{})

	return r
}
