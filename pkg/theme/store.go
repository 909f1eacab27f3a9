// Package theme implements the cascading style registry of a pinout diagram.
//
// A [Store] maps typed theme keys to flat attribute maps. Lookups go through
// [Store.Resolve], which falls back from the named theme to DEFAULT and then
// to a caller-supplied value, so drawing code never fails on a missing
// attribute. Only missing theme names used as structural references are
// errors (see [Store.ValidateBoxRefs]).
package theme

import (
	"slices"
	"strings"

	"github.com/matzehuels/pinout/pkg/errors"
)

// Theme is a flat attribute map.
type Theme map[Attr]Value

// Cascade is one setup write: DEFAULT first, then TYPE and GROUP when set,
// then per-column values mapped onto the declared pin-function labels.
// Zero values are skipped.
type Cascade struct {
	Default Value
	Type    Value
	Group   Value
	Columns []Value
}

// Store is the theme registry. It is not safe for concurrent use; a store is
// owned by a single rendering pass.
type Store struct {
	themes map[Key]Theme
	labels []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{themes: make(map[Key]Theme)}
}

// DeclareLabels sets the pin-function labels. It may succeed only once.
func (s *Store) DeclareLabels(labels []string) error {
	if s.labels != nil {
		return errors.New(errors.ErrCodeDuplicateLabels, "pin-function labels can only be declared once")
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" {
			return errors.New(errors.ErrCodeInvalidLabels, "pin-function label cannot be empty")
		}
		if l == Default.Name || l == Type.Name || l == Group.Name {
			return errors.New(errors.ErrCodeInvalidLabels, "%q is a reserved theme name", l)
		}
		if seen[l] {
			return errors.New(errors.ErrCodeInvalidLabels, "pin-function label %q declared twice", l)
		}
		seen[l] = true
	}

	s.labels = append(make([]string, 0, len(labels)), labels...)
	for _, k := range []Key{Default, Type, Group} {
		s.ensure(k)
	}
	for _, l := range labels {
		s.ensure(Label(l))
	}
	return nil
}

// Labels returns a copy of the declared pin-function labels.
func (s *Store) Labels() []string { return slices.Clone(s.labels) }

// LabelsDeclared reports whether DeclareLabels has succeeded.
func (s *Store) LabelsDeclared() bool { return s.labels != nil }

// Set writes a single attribute, creating the theme when needed.
func (s *Store) Set(k Key, a Attr, v Value) {
	if v.IsZero() {
		return
	}
	s.ensure(k)[a] = v
}

// SetCascade applies a cascade write for attribute a. Column values beyond
// the declared label count are ignored.
func (s *Store) SetCascade(a Attr, c Cascade) {
	s.Set(Default, a, c.Default)
	s.Set(Type, a, c.Type)
	s.Set(Group, a, c.Group)
	for i, v := range c.Columns {
		if i >= len(s.labels) {
			break
		}
		s.Set(Label(s.labels[i]), a, v)
	}
}

// Define replaces the whole attribute map of k.
func (s *Store) Define(k Key, t Theme) {
	m := make(Theme, len(t))
	for a, v := range t {
		if !v.IsZero() {
			m[a] = v
		}
	}
	s.themes[k] = m
}

// Has reports whether theme k exists.
func (s *Store) Has(k Key) bool {
	_, ok := s.themes[k]
	return ok
}

// Lookup returns k's own value for a, without fallback.
func (s *Store) Lookup(k Key, a Attr) (Value, bool) {
	v, ok := s.themes[k][a]
	return v, ok
}

// Resolve returns k's value for a, else DEFAULT's, else fb.
func (s *Store) Resolve(k Key, a Attr, fb Value) Value {
	if v, ok := s.themes[k][a]; ok {
		return v
	}
	if v, ok := s.themes[Default][a]; ok {
		return v
	}
	return fb
}

// Text resolves a as a string.
func (s *Store) Text(k Key, a Attr, fb string) string {
	v := s.Resolve(k, a, Value{})
	if v.IsZero() {
		return fb
	}
	return v.String()
}

// Float resolves a as a number. Values that do not convert yield fb.
func (s *Store) Float(k Key, a Attr, fb float64) float64 {
	v := s.Resolve(k, a, Value{})
	if f, ok := v.Float(); ok {
		return f
	}
	return fb
}

// ValidateBoxRefs checks that every BOXES attribute names an existing box
// theme. Themes are visited in key order so the reported error is stable.
func (s *Store) ValidateBoxRefs() error {
	for _, k := range s.Keys() {
		ref, ok := s.themes[k][Boxes]
		if !ok || ref.String() == "" {
			continue
		}
		if !s.Has(BoxKey(ref.String())) {
			return errors.New(errors.ErrCodeUndefinedBox,
				"box %q used by theme %s is not defined", ref.String(), k)
		}
	}
	return nil
}

// Keys returns all theme keys ordered by their boundary name.
func (s *Store) Keys() []Key {
	keys := make([]Key, 0, len(s.themes))
	for k := range s.themes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if a.NS != b.NS {
			return int(a.NS) - int(b.NS)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return keys
}

// Theme returns a copy of k's attribute map.
func (s *Store) Theme(k Key) (Theme, bool) {
	t, ok := s.themes[k]
	if !ok {
		return nil, false
	}
	out := make(Theme, len(t))
	for a, v := range t {
		out[a] = v
	}
	return out, true
}

func (s *Store) ensure(k Key) Theme {
	t, ok := s.themes[k]
	if !ok {
		t = make(Theme)
		s.themes[k] = t
	}
	return t
}
