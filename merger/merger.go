package merger

import (
	"fmt"

	"github.com/viant/classmodel/inspector/graph"
)

// ConflictError reports members that cannot be merged
type ConflictError struct {
	Base     string // model qualified member name, i.e. base::com.acme.Foo#bar()
	Incoming string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict: %s: %s vs %s", e.Reason, e.Base, e.Incoming)
}

// Merger folds types of other models into the base model, types are matched by qualified name
type Merger struct {
	base *graph.Model
}

// New creates a merger for the base model
func New(base *graph.Model) *Merger {
	return &Merger{base: base}
}

// MergeModel merges all types and their members of other model
func (m *Merger) MergeModel(other *graph.Model) error {
	types := other.Types()
	m.MergeAllTypes(types)
	return m.MergeAllMemberData(types)
}

// MergeAllTypes merges type level attributes, returns base counterparts.
// Types referred by the incoming types but missing in the base are created as inferred.
func (m *Merger) MergeAllTypes(types []*graph.Type) []*graph.Type {
	result := make([]*graph.Type, 0, len(types))
	for _, incoming := range types {
		base, created := m.lookupOrCreate(incoming.Model(), incoming.Identity(), incoming.Kind)
		if created {
			m.copyType(base, incoming)
		} else if base != incoming {
			m.mergeType(base, incoming)
		}
		result = append(result, base)
	}
	return result
}

// lookupOrCreate returns the base type for name; owners and array elements created on the way
// take attributes of their source counterparts and are tagged inferred
func (m *Merger) lookupOrCreate(source *graph.Model, name graph.Name, kind graph.Kind) (*graph.Type, bool) {
	since := m.base.Len()
	base, created := m.base.LookupOrCreate(name, kind)
	for _, implicit := range m.base.TypesSince(since) {
		if implicit != base {
			adopt(source, implicit)
		}
	}
	return base, created
}

// resolve returns the base qualified name of a type referred from source, creating it as inferred if needed
func (m *Merger) resolve(source *graph.Model, qualifiedName string) string {
	if qualifiedName == "" || source == nil || m.base.Lookup(qualifiedName) != nil {
		return qualifiedName
	}
	origin := source.Lookup(qualifiedName)
	if origin == nil {
		return qualifiedName
	}
	aType, created := m.lookupOrCreate(source, origin.Identity(), origin.Kind)
	if created {
		adopt(source, aType)
	}
	return aType.QualifiedName
}

func (m *Merger) resolveAll(source *graph.Model, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		result = append(result, m.resolve(source, name))
	}
	return result
}

// adopt copies type level flags of the source counterpart into a type created by reference only
func adopt(source *graph.Model, implicit *graph.Type) {
	if source != nil {
		if origin := source.Lookup(implicit.QualifiedName); origin != nil {
			implicit.Kind = origin.Kind
			implicit.SetVisibility(origin.Visibility)
			implicit.IsAbstract = origin.IsAbstract
			implicit.IsLeaf = origin.IsLeaf
			mergeMetadata(&implicit.Annotated, &origin.Annotated)
		}
	}
	implicit.SetInferred(true)
}

func (m *Merger) copyType(base, incoming *graph.Type) {
	source := incoming.Model()
	base.Kind = incoming.Kind
	base.SetVisibility(incoming.Visibility)
	base.IsAbstract = incoming.IsAbstract
	base.IsLeaf = incoming.IsLeaf
	base.Generalizations = m.resolveAll(source, incoming.Generalizations)
	base.Realizations = m.resolveAll(source, incoming.Realizations)
	base.Annotation = incoming.CloneAnnotation()
	base.SetInferred(incoming.IsInferred())
}

func (m *Merger) mergeType(base, incoming *graph.Type) {
	source := incoming.Model()
	base.SetVisibility(base.Visibility.Widen(incoming.Visibility))
	base.IsAbstract = base.IsAbstract && incoming.IsAbstract
	base.IsLeaf = base.IsLeaf && incoming.IsLeaf
	for _, name := range incoming.Generalizations {
		base.AddGeneralization(m.resolve(source, name))
	}
	for _, name := range incoming.Realizations {
		base.AddRealization(m.resolve(source, name))
	}
	if base.IsInferred() && !incoming.IsInferred() {
		base.SetInferred(false)
		base.Kind = incoming.Kind
	}
	mergeMetadata(&base.Annotated, &incoming.Annotated)
}

func mergeMetadata(base, incoming *graph.Annotated) {
	if incoming.Annotation == nil {
		return
	}
	for key, value := range incoming.Annotation.Metadata {
		if _, ok := base.Metadata(key); !ok {
			base.SetMetadata(key, value)
		}
	}
}

// MergeAllMemberData merges properties and operations, types have to be merged first
func (m *Merger) MergeAllMemberData(types []*graph.Type) error {
	for _, incoming := range types {
		base := m.base.Lookup(incoming.QualifiedName)
		if base == nil {
			return &graph.NotFoundError{Kind: "type", Name: incoming.QualifiedName}
		}
		if base == incoming {
			continue
		}
		source := incoming.Model()
		for _, property := range incoming.Properties {
			existing := base.Property(property.Name)
			if existing == nil {
				clone := property.Clone()
				clone.Type = m.resolve(source, clone.Type)
				base.AddProperty(clone)
				continue
			}
			if existing.IsStatic != property.IsStatic {
				return m.conflict(base, existing.Name, incoming, property.Name)
			}
			existing.Visibility = existing.Visibility.Widen(property.Visibility)
			existing.IsReadOnly = existing.IsReadOnly && property.IsReadOnly
			existing.IsLeaf = existing.IsLeaf && property.IsLeaf
			if existing.IsInferred() && !property.IsInferred() {
				existing.SetInferred(false)
			}
			mergeMetadata(&existing.Annotated, &property.Annotated)
		}
		for _, operation := range incoming.Operations {
			signature := operation.Signature()
			existing := base.Operation(signature)
			if existing == nil {
				base.AddOperation(m.cloneOperation(source, operation))
				continue
			}
			if existing.IsStatic != operation.IsStatic {
				return m.conflict(base, signature, incoming, signature)
			}
			existing.Visibility = existing.Visibility.Widen(operation.Visibility)
			existing.IsAbstract = existing.IsAbstract && operation.IsAbstract
			existing.IsLeaf = existing.IsLeaf && operation.IsLeaf
			for _, name := range operation.Exceptions {
				existing.AddException(m.resolve(source, name))
			}
			for _, name := range operation.References {
				existing.AddReference(m.resolve(source, name))
			}
			if existing.IsInferred() && !operation.IsInferred() {
				existing.SetInferred(false)
			}
			mergeMetadata(&existing.Annotated, &operation.Annotated)
		}
	}
	return nil
}

func (m *Merger) cloneOperation(source *graph.Model, operation *graph.Operation) *graph.Operation {
	clone := operation.Clone()
	for _, param := range clone.Parameters {
		param.Type = m.resolve(source, param.Type)
	}
	clone.Return = m.resolve(source, clone.Return)
	for i, name := range clone.Exceptions {
		clone.Exceptions[i] = m.resolve(source, name)
	}
	for i, name := range clone.References {
		clone.References[i] = m.resolve(source, name)
	}
	return clone
}

func (m *Merger) conflict(base *graph.Type, baseMember string, incoming *graph.Type, incomingMember string) error {
	incomingModel := ""
	if owner := incoming.Model(); owner != nil {
		incomingModel = owner.Name
	}
	return &ConflictError{
		Base:     fmt.Sprintf("%s::%s#%s", m.base.Name, base.QualifiedName, baseMember),
		Incoming: fmt.Sprintf("%s::%s#%s", incomingModel, incoming.QualifiedName, incomingMember),
		Reason:   "static modifier mismatch",
	}
}
