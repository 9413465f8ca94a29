package relation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Set is a set of identifiers.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexicographic order. The result is never nil.
func (s Set) Sorted() []string {
	if len(s) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s))
}

// Relation maps an identifier to the identifiers it declares as parents.
//
// A name referenced only as a parent does not need its own key; it is an
// implicit root. A Relation must not list a name as its own parent once
// [Relation.Normalize] or [Merge] has run.
type Relation map[string]Set

// New returns an empty relation.
func New() Relation { return make(Relation) }

// FromMap builds a relation from plain parent lists, as decoded from a
// relation document.
func FromMap(m map[string][]string) Relation {
	r := make(Relation, len(m))
	for name, parents := range m {
		r.Add(name, parents...)
	}
	return r
}

// Add records name with the given parents. Calling Add repeatedly for the
// same name unions the parent sets. A name with no parents is still recorded
// as a key.
func (r Relation) Add(name string, parents ...string) {
	set, ok := r[name]
	if !ok {
		set = make(Set, len(parents))
		r[name] = set
	}
	for _, p := range parents {
		set.Add(p)
	}
}

// Names returns the keys of the relation in sorted order.
func (r Relation) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// EdgeCount returns the number of declared name → parent pairs.
func (r Relation) EdgeCount() int {
	n := 0
	for _, parents := range r {
		n += len(parents)
	}
	return n
}

// Plain converts the relation to sorted parent lists keyed by name.
func (r Relation) Plain() map[string][]string {
	out := make(map[string][]string, len(r))
	for name, parents := range r {
		out[name] = parents.Sorted()
	}
	return out
}

// Hash returns a SHA-256 digest of the relation's canonical JSON form.
// Equal relations hash equally regardless of construction order.
func (r Relation) Hash() string {
	// encoding/json sorts map keys, and Plain sorts the values.
	data, _ := json.Marshal(r.Plain())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Diagnostic describes a correction applied to a relation.
type Diagnostic struct {
	Name    string
	Message string
}

func (d Diagnostic) String() string { return fmt.Sprintf("%s: %s", d.Name, d.Message) }

const selfReference = "dropped self reference"

// Normalize removes self references in place and reports one diagnostic per
// name that listed itself as a parent. Diagnostics are ordered by name.
func (r Relation) Normalize() []Diagnostic {
	var diags []Diagnostic
	for _, name := range r.Names() {
		if r[name].Has(name) {
			delete(r[name], name)
			diags = append(diags, Diagnostic{Name: name, Message: selfReference})
		}
	}
	return diags
}

// Merge unions the parent sets of every relation per key into a new
// relation. Self references produced by the union are dropped and reported
// rather than treated as errors. The inputs are not modified.
func Merge(rels ...Relation) (Relation, []Diagnostic) {
	out := New()
	for _, rel := range rels {
		for name, parents := range rel {
			out.Add(name, slices.Collect(maps.Keys(parents))...)
		}
	}
	return out, out.Normalize()
}
