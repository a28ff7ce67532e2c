package util

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// StringSet is a map[string]bool with set operations added. The zero value is
// not usable; create one with NewStringSet or StringSetOf.
type StringSet map[string]bool

// NewStringSet creates a StringSet holding every key of the given maps.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a StringSet holding every element of sl.
func StringSetOf(sl []string) StringSet {
	s := StringSet{}
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// Has returns whether value is in the set.
func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

// Add adds value to the set. It returns whether the set grew as a result.
func (s StringSet) Add(value string) bool {
	if s.Has(value) {
		return false
	}
	s[value] = true
	return true
}

// AddAll adds every element of s2 to s. It returns whether s grew as a result.
func (s StringSet) AddAll(s2 StringSet) bool {
	var grew bool
	for k := range s2 {
		if s.Add(k) {
			grew = true
		}
	}
	return grew
}

// AddAllExcept is AddAll but skips the element named by except. It returns
// whether s grew as a result.
func (s StringSet) AddAllExcept(s2 StringSet, except string) bool {
	var grew bool
	for k := range s2 {
		if k == except {
			continue
		}
		if s.Add(k) {
			grew = true
		}
	}
	return grew
}

// Sorted returns the elements of the set in lexicographic order.
func (s StringSet) Sorted() []string {
	ts := treeset.NewWithStringComparator()
	for k := range s {
		ts.Add(k)
	}

	sorted := make([]string, 0, ts.Size())
	for _, v := range ts.Values() {
		sorted = append(sorted, v.(string))
	}
	return sorted
}

// String shows the contents of the set. Items are guaranteed to be
// alphabetized.
func (s StringSet) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// OrderedKeys returns the keys of m in alphabetical order.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
