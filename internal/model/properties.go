package model

import (
	"slices"

	"github.com/Primosic/validador-opin-2025/internal/maps"
)

// PropertySet is an ordered snapshot of a fragment's property set. Derivation
// never mutates the source fragments: it builds a snapshot once, adds
// synthetic entries to it, and then iterates it. Names are unique within a
// set.
type PropertySet []Property

// Snapshot returns the fragment's own properties as a new PropertySet in
// sorted name order, so derivation walks a deterministic order regardless of
// map iteration.
func Snapshot(f *Fragment) PropertySet {
	if f == nil || len(f.Properties) == 0 {
		return nil
	}

	props := make(PropertySet, 0, len(f.Properties))
	for _, name := range maps.SortedKeys(f.Properties) {
		props = append(props, Property{Name: name, Fragment: f.Properties[name]})
	}

	return props
}

// Contains reports whether the set has a property named name.
func (ps PropertySet) Contains(name string) bool {
	return slices.ContainsFunc(ps, func(p Property) bool { return p.Name == name })
}

// Add returns the set with the given property appended, or the set as-is
// when it already holds a property with that name.
func (ps PropertySet) Add(name string, frag *Fragment) PropertySet {
	if ps.Contains(name) {
		return ps
	}

	return append(ps, Property{Name: name, Fragment: frag})
}
