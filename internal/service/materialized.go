package service

import "sort"

// MaterializedSet tracks the car/platform names already created on the
// backend for one tenant during this run. It is owned by the batch driver,
// grown by the reconciler, and retained across all documents of the same
// tenant within the run. Never persisted between runs.
type MaterializedSet struct {
	names map[string]struct{}
}

// NewMaterializedSet returns an empty set.
func NewMaterializedSet() *MaterializedSet {
	return &MaterializedSet{names: make(map[string]struct{})}
}

// Has reports whether name has already been materialized.
func (s *MaterializedSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Add marks name as materialized. Adding an existing name is a no-op.
func (s *MaterializedSet) Add(name string) {
	s.names[name] = struct{}{}
}

// Names returns the materialized names in sorted order.
func (s *MaterializedSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
