package language

import "sort"

// DependencySet is an unordered, deduplicated set of package names.
type DependencySet map[string]struct{}

// NewDependencySet returns a set holding names.
func NewDependencySet(names ...string) DependencySet {
	s := make(DependencySet, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts name. Empty names are ignored.
func (s DependencySet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s DependencySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of entries.
func (s DependencySet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s DependencySet) Clone() DependencySet {
	c := make(DependencySet, len(s))
	for name := range s {
		c[name] = struct{}{}
	}
	return c
}

// Without returns a copy of the set with names removed.
func (s DependencySet) Without(names ...string) DependencySet {
	c := s.Clone()
	for _, name := range names {
		delete(c, name)
	}
	return c
}

// Sorted returns the entries in lexical order.
func (s DependencySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
