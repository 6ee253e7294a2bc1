package action

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"
)

// ResultSet is the immutable name-keyed outcome of one orchestration run.
// Iteration order is always sorted by name.
type ResultSet struct {
	results map[string]Result
	names   []string
}

// Slot is a per-position entry written by exactly one settled action
type Slot struct {
	Name   string
	Result Result
	Filled bool
}

var empty = &ResultSet{results: map[string]Result{}}

// Empty returns the empty ResultSet
func Empty() *ResultSet {
	return empty
}

// Of freezes a copy of m into a ResultSet
func Of(m map[string]Result) *ResultSet {
	if len(m) == 0 {
		return empty
	}
	results := maps.Clone(m)
	return &ResultSet{results: results, names: slices.Sorted(maps.Keys(results))}
}

// Single returns a one-entry ResultSet
func Single(name string, r Result) *ResultSet {
	return &ResultSet{results: map[string]Result{name: r}, names: []string{name}}
}

// Collect freezes position-indexed slots into a ResultSet. When two filled
// slots share a name the later position wins; the shadowed names are
// returned so the caller can report them.
func Collect(slots []Slot) (*ResultSet, []string) {
	results := make(map[string]Result, len(slots))
	var duplicates []string
	for _, s := range slots {
		if !s.Filled {
			continue
		}
		if _, seen := results[s.Name]; seen {
			duplicates = append(duplicates, s.Name)
		}
		results[s.Name] = s.Result
	}
	if len(results) == 0 {
		return empty, duplicates
	}
	return &ResultSet{results: results, names: slices.Sorted(maps.Keys(results))}, duplicates
}

// Get returns the result stored under name
func (rs *ResultSet) Get(name string) (Result, bool) {
	if rs == nil {
		return Result{}, false
	}
	r, ok := rs.results[name]
	return r, ok
}

// Len returns the number of entries
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.results)
}

// Names returns the sorted entry names
func (rs *ResultSet) Names() []string {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.names)
}

// All iterates entries in name order
func (rs *ResultSet) All() iter.Seq2[string, Result] {
	return func(yield func(string, Result) bool) {
		if rs == nil {
			return
		}
		for _, name := range rs.names {
			if !yield(name, rs.results[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the entries
func (rs *ResultSet) Map() map[string]Result {
	if rs == nil {
		return map[string]Result{}
	}
	return maps.Clone(rs.results)
}

// MarshalJSON renders the set as a JSON object keyed by name
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Map())
}

// MarshalYAML renders the set as a YAML mapping keyed by name
func (rs *ResultSet) MarshalYAML() (interface{}, error) {
	return rs.Map(), nil
}
