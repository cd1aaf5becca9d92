// Package flags holds boolean switches for rewrite variants. Unknown or
// unset flags read as disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/bpgroup/internal/log"
)

const (
	// FlagLiteralOnly restricts rewriting to string literal values; existing
	// join calls are left alone.
	FlagLiteralOnly = "literal-only"
)

var known = []string{FlagLiteralOnly}

// Registry is a read-only set of flags.
type Registry struct {
	flags map[string]bool
}

// New copies flags into a Registry. Names not in the known set are kept
// but logged.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	if unknown := r.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "unknown feature flags", "flags", unknown)
	}
	log.Debug(log.CatConfig, "feature flags", "flags", r.flags)
	return r
}

// Enabled reports whether name is set to true. Nil-safe.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// Unknown returns the configured names that no code reads, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	var out []string
	for name := range r.flags {
		if !slices.Contains(known, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// All returns a copy of every configured flag.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Known returns the flag names this build understands.
func Known() []string {
	return slices.Clone(known)
}
