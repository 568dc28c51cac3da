package java

import (
	"strconv"

	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/graph"
)

// AddAllTypes locates or creates one type per class record
func (i *Inspector) AddAllTypes(classes []*classfile.Class) []*graph.Type {
	result := make([]*graph.Type, 0, len(classes))
	for _, class := range classes {
		result = append(result, i.addType(class))
	}
	return result
}

func (i *Inspector) addType(class *classfile.Class) *graph.Type {
	kind := graph.KindClass
	switch class.Kind() {
	case classfile.KindInterface, classfile.KindAnnotation:
		kind = graph.KindInterface
	}
	aType, _ := i.model.LookupOrCreate(TypeName(class.Name), kind)
	aType.Kind = kind
	aType.IsAbstract = class.Access.IsAbstract()
	aType.IsLeaf = class.Access.IsFinal()
	aType.SetVisibility(visibility(class.Access))
	if kind == graph.KindInterface {
		for _, name := range class.Interfaces {
			aType.AddGeneralization(i.lookupClass(name, graph.KindInterface))
		}
	} else {
		if class.Super != "" {
			aType.AddGeneralization(i.lookupClass(class.Super, graph.KindClass))
		}
		for _, name := range class.Interfaces {
			aType.AddRealization(i.lookupClass(name, graph.KindInterface))
		}
	}
	aType.SetMetadata(graph.MetaBytecodeVersion, class.Version())
	if class.Location != "" {
		aType.SetMetadata(graph.MetaLocation, class.Location)
	}
	return aType
}

// AddAllMembers adds properties and operations of class records to their types
func (i *Inspector) AddAllMembers(classes []*classfile.Class) error {
	for _, class := range classes {
		qualifiedName := QualifiedName(class.Name)
		aType := i.model.Lookup(qualifiedName)
		if aType == nil {
			return &graph.NotFoundError{Kind: "type", Name: qualifiedName}
		}
		for _, field := range class.Fields {
			if field.Access.IsSynthetic() {
				continue
			}
			aType.AddProperty(&graph.Property{
				Name:       field.Name,
				Type:       i.lookupRef(field.Type),
				IsStatic:   field.Access.IsStatic(),
				IsReadOnly: field.Access.IsFinal(),
				Visibility: visibility(field.Access),
			})
		}
		for _, method := range class.Methods {
			if method.IsInitializer() || method.Access.IsSynthetic() || method.Access.Has(classfile.AccBridge) {
				continue
			}
			aType.AddOperation(i.operation(aType, method))
		}
	}
	return nil
}

func (i *Inspector) operation(owner *graph.Type, method *classfile.Method) *graph.Operation {
	ret := &graph.Operation{
		Name:       method.Name,
		IsStatic:   method.Access.IsStatic(),
		IsAbstract: method.Access.IsAbstract(),
		IsLeaf:     method.Access.IsFinal(),
		Visibility: visibility(method.Access),
	}
	if method.IsConstructor() {
		ret.Name = owner.Name
	}
	for idx, param := range method.Parameters {
		name := param.Name
		if name == "" {
			name = "arg" + strconv.Itoa(idx)
		}
		ret.Parameters = append(ret.Parameters, &graph.Parameter{Name: name, Type: i.lookupRef(param.Type)})
	}
	if method.Return != nil {
		ret.Return = i.lookupRef(*method.Return)
	}
	for _, name := range method.Exceptions {
		ret.AddException(i.lookupClass(name, graph.KindClass))
	}
	if i.config.IncludeInstructionReferences {
		for _, name := range method.References {
			ret.AddReference(i.lookupClass(name, graph.KindClass))
		}
	}
	return ret
}

// lookupClass returns qualified name of a class, creating a placeholder type if needed
func (i *Inspector) lookupClass(binaryName string, kind graph.Kind) string {
	aType, _ := i.model.LookupOrCreate(TypeName(binaryName), kind)
	return aType.QualifiedName
}

func (i *Inspector) lookupRef(ref classfile.TypeRef) string {
	name := RefName(ref)
	if !name.IsValid() {
		return ""
	}
	aType, _ := i.model.LookupOrCreate(name, refKind(ref))
	return aType.QualifiedName
}

// AddClassifiersClosure returns classpath records reachable from primary records, in classpath order
func (i *Inspector) AddClassifiersClosure(primary, classpath []*classfile.Class) []*classfile.Class {
	index := make(map[string]*classfile.Class, len(classpath))
	for _, class := range classpath {
		index[class.Name] = class
	}
	reachable := make(map[string]bool)
	queue := append([]*classfile.Class(nil), primary...)
	for len(queue) > 0 {
		class := queue[0]
		queue = queue[1:]
		for _, name := range class.References(i.config.IncludeInstructionReferences) {
			candidate, ok := index[name]
			if !ok || reachable[name] {
				continue
			}
			reachable[name] = true
			queue = append(queue, candidate)
		}
	}
	var result []*classfile.Class
	for _, class := range classpath {
		if reachable[class.Name] {
			result = append(result, class)
		}
	}
	return result
}
