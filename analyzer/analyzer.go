package analyzer

import (
	"log"
	"strings"

	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/java"
)

// Analyzer computes declared versus inferred types of a model
type Analyzer struct {
	model               *graph.Model
	includeInstructions bool
}

// Option represents analyzer option
type Option func(*Analyzer)

// WithInstructionReferences makes instruction operand references part of the closure
func WithInstructionReferences(enabled bool) Option {
	return func(a *Analyzer) {
		a.includeInstructions = enabled
	}
}

// New creates an analyzer for the model
func New(model *graph.Model, options ...Option) *Analyzer {
	ret := &Analyzer{model: model}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// FindContainedTypes returns types constructed from the class records
func (a *Analyzer) FindContainedTypes(classes []*classfile.Class) TypeSet {
	ret := TypeSet{}
	for _, class := range classes {
		ret.Add(a.model.Lookup(java.QualifiedName(class.Name)))
	}
	return ret
}

// FindInferredTypes returns model types outside of contained
func (a *Analyzer) FindInferredTypes(contained TypeSet) TypeSet {
	ret := TypeSet{}
	for _, aType := range a.model.Types() {
		if !contained.Has(aType) {
			ret.Add(aType)
		}
	}
	return ret
}

// FindAllReferredTypes returns types transitively referred by the start types
func (a *Analyzer) FindAllReferredTypes(start TypeSet) TypeSet {
	ret := TypeSet{}
	queue := start.Types()
	for len(queue) > 0 {
		aType := queue[0]
		queue = queue[1:]
		for _, name := range aType.References(a.includeInstructions) {
			if _, ok := ret[name]; ok {
				continue
			}
			referred := a.model.Lookup(name)
			if referred == nil {
				continue
			}
			ret.Add(referred)
			queue = append(queue, referred)
		}
	}
	return ret
}

// FindContainerTypes returns types with all their enclosing types
func (a *Analyzer) FindContainerTypes(types TypeSet) TypeSet {
	ret := make(TypeSet, len(types))
	for _, aType := range types {
		ret.Add(aType)
		for _, container := range aType.Containers() {
			ret.Add(container)
		}
	}
	return ret
}

// TagInferred tags every type and its members, inferred iff the type is in the inferred set
func (a *Analyzer) TagInferred(inferred TypeSet) {
	for _, aType := range a.model.Types() {
		isInferred := inferred.Has(aType)
		aType.SetInferred(isInferred)
		for _, property := range aType.Properties {
			property.SetInferred(isInferred)
		}
		for _, operation := range aType.Operations {
			operation.SetInferred(isInferred)
		}
	}
}

// PruneDependencies keeps the dependency surface of contained types and returns the contained types left.
// Contained types referred back by dependencies are kept without members, other contained types are removed.
func (a *Analyzer) PruneDependencies(contained TypeSet) TypeSet {
	inferred := a.FindInferredTypes(contained)
	referred := a.FindContainerTypes(a.FindAllReferredTypes(inferred))
	if overlap := contained.Intersect(referred); len(overlap) > 0 {
		log.Printf("WARNING: dependency cycle, %d declared types are referred by dependencies, keeping them without members: %s",
			len(overlap), strings.Join(overlap.Names(), ", "))
		var unreferred []*graph.Type
		for _, aType := range contained.Types() {
			if overlap.Has(aType) {
				aType.ClearMembers()
				continue
			}
			unreferred = append(unreferred, aType)
		}
		removed := NewTypeSet(a.model.RemoveTypes(unreferred)...)
		for _, aType := range overlap {
			aType.Generalizations = without(aType.Generalizations, removed)
			aType.Realizations = without(aType.Realizations, removed)
		}
		contained = overlap
	}
	a.TagInferred(a.FindInferredTypes(contained))
	a.model.PruneEmptyPackages()
	return contained
}

func without(names []string, removed TypeSet) []string {
	var result []string
	for _, name := range names {
		if _, ok := removed[name]; !ok {
			result = append(result, name)
		}
	}
	return result
}
