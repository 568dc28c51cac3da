package analyzer

import (
	"sort"

	"github.com/viant/classmodel/inspector/graph"
)

// TypeSet represents a set of model types keyed by qualified name
type TypeSet map[string]*graph.Type

// NewTypeSet creates a set with the supplied types
func NewTypeSet(types ...*graph.Type) TypeSet {
	ret := make(TypeSet, len(types))
	for _, aType := range types {
		ret.Add(aType)
	}
	return ret
}

// Add adds a type
func (s TypeSet) Add(aType *graph.Type) {
	if aType != nil {
		s[aType.QualifiedName] = aType
	}
}

// Has returns true if set holds the type
func (s TypeSet) Has(aType *graph.Type) bool {
	_, ok := s[aType.QualifiedName]
	return ok
}

// Intersect returns types held by both sets
func (s TypeSet) Intersect(other TypeSet) TypeSet {
	ret := TypeSet{}
	for name, aType := range s {
		if _, ok := other[name]; ok {
			ret[name] = aType
		}
	}
	return ret
}

// IsSubsetOf returns true if every type is held by other
func (s TypeSet) IsSubsetOf(other TypeSet) bool {
	for name := range s {
		if _, ok := other[name]; !ok {
			return false
		}
	}
	return true
}

// Names returns sorted qualified names
func (s TypeSet) Names() []string {
	result := make([]string, 0, len(s))
	for name := range s {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Types returns types sorted by qualified name
func (s TypeSet) Types() []*graph.Type {
	result := make([]*graph.Type, 0, len(s))
	for _, name := range s.Names() {
		result = append(result, s[name])
	}
	return result
}
