// Package filter implements path filtering for fsdebounce's watch pipeline.
// Raw watcher notifications for excluded paths (hidden files, editor
// droppings, user-supplied glob patterns) are dropped before they reach the
// debouncer cache.
//
// The package is built around the [Filter] interface and [Chain] type, which
// allow composable, ordered filter application.
package filter

import (
	"path/filepath"
	"strings"
)

// Filter decides whether a path is excluded from watching.
type Filter interface {
	// Exclude reports whether events for path should be dropped.
	Exclude(path string) bool
}

// Chain applies filters in order; a path is excluded as soon as any filter
// excludes it.
type Chain []Filter

// Exclude implements Filter.
func (c Chain) Exclude(path string) bool {
	for _, f := range c {
		if f.Exclude(path) {
			return true
		}
	}

	return false
}

// HiddenFilter excludes dotfiles and files inside hidden directories.
type HiddenFilter struct{}

// Exclude implements Filter.
func (HiddenFilter) Exclude(path string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(elem, ".") && elem != "." && elem != ".." {
			return true
		}
	}

	return false
}

// TempFileFilter excludes editor scratch and backup files.
type TempFileFilter struct{}

// Exclude implements Filter.
func (TempFileFilter) Exclude(path string) bool {
	name := filepath.Base(path)

	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		return true
	}

	for _, suffix := range []string{"~", ".swp", ".swo", ".swx", ".tmp"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

// PatternFilter excludes paths matching any of the given glob patterns.
// Each pattern is matched against both the base name and the full
// slash-separated path.
type PatternFilter struct {
	patterns []string
}

// NewPatternFilter creates a filter from glob patterns. Invalid patterns
// never match.
func NewPatternFilter(patterns ...string) *PatternFilter {
	return &PatternFilter{patterns: patterns}
}

// Exclude implements Filter.
func (f *PatternFilter) Exclude(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, pattern := range f.patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}

		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
	}

	return false
}

// Default returns the chain used by the CLI: hidden files, editor temp
// files, plus the user-supplied exclude globs.
func Default(patterns ...string) Chain {
	chain := Chain{HiddenFilter{}, TempFileFilter{}}

	if len(patterns) > 0 {
		chain = append(chain, NewPatternFilter(patterns...))
	}

	return chain
}
