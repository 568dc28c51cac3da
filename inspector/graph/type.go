package graph

// Type represents a modeled class, interface, datatype or array
type Type struct {
	Name            string // simple name
	QualifiedName   string
	Kind            Kind
	Visibility      Visibility
	IsAbstract      bool
	IsLeaf          bool
	Element         string   // array element qualified name
	Rank            int      // array rank
	Generalizations []string // superclass or superinterfaces
	Realizations    []string // implemented interfaces
	Properties      []*Property
	Operations      []*Operation
	Types           []*Type // nested types
	Package         *Package
	Owner           *Type
	Annotated

	name         Name
	model        *Model
	arrays       []*Type
	propertyMap  map[string]int
	operationMap map[string]int
}

// Identity returns the type name
func (t *Type) Identity() Name {
	return t.name
}

// Model returns the model owning the type
func (t *Type) Model() *Model {
	return t.model
}

// SetVisibility sets visibility of the type and of its array types
func (t *Type) SetVisibility(visibility Visibility) {
	t.Visibility = visibility
	for _, array := range t.arrays {
		array.Visibility = visibility
	}
}

// IsNested returns true if type is declared inside another type
func (t *Type) IsNested() bool {
	return t.Owner != nil
}

// Property retrieves a property by name
func (t *Type) Property(name string) *Property {
	if t.Properties == nil {
		return nil
	}
	if idx, ok := t.propertyMap[name]; ok && idx < len(t.Properties) {
		return t.Properties[idx]
	}
	return nil
}

// AddProperty adds a property, replacing the one with the same name
func (t *Type) AddProperty(property *Property) {
	if t.propertyMap == nil {
		t.propertyMap = make(map[string]int)
	}
	if idx, ok := t.propertyMap[property.Name]; ok {
		t.Properties[idx] = property
		return
	}
	t.Properties = append(t.Properties, property)
	t.propertyMap[property.Name] = len(t.Properties) - 1
}

// RemoveProperty removes a property by name
func (t *Type) RemoveProperty(name string) bool {
	idx, ok := t.propertyMap[name]
	if !ok {
		return false
	}
	t.Properties = append(t.Properties[:idx], t.Properties[idx+1:]...)
	delete(t.propertyMap, name)
	for i := idx; i < len(t.Properties); i++ {
		t.propertyMap[t.Properties[i].Name] = i
	}
	return true
}

// Operation retrieves an operation by signature
func (t *Type) Operation(signature string) *Operation {
	if t.Operations == nil {
		return nil
	}
	if idx, ok := t.operationMap[signature]; ok && idx < len(t.Operations) {
		return t.Operations[idx]
	}
	return nil
}

// AddOperation adds an operation, replacing the one with the same signature
func (t *Type) AddOperation(operation *Operation) {
	if t.operationMap == nil {
		t.operationMap = make(map[string]int)
	}
	signature := operation.Signature()
	if idx, ok := t.operationMap[signature]; ok {
		t.Operations[idx] = operation
		return
	}
	t.Operations = append(t.Operations, operation)
	t.operationMap[signature] = len(t.Operations) - 1
}

// RemoveOperation removes an operation by signature
func (t *Type) RemoveOperation(signature string) bool {
	idx, ok := t.operationMap[signature]
	if !ok {
		return false
	}
	t.Operations = append(t.Operations[:idx], t.Operations[idx+1:]...)
	delete(t.operationMap, signature)
	for i := idx; i < len(t.Operations); i++ {
		t.operationMap[t.Operations[i].Signature()] = i
	}
	return true
}

// ClearMembers removes all properties and operations
func (t *Type) ClearMembers() {
	t.Properties = nil
	t.Operations = nil
	t.propertyMap = nil
	t.operationMap = nil
}

// HasMembers returns true if type owns any property or operation
func (t *Type) HasMembers() bool {
	return len(t.Properties) > 0 || len(t.Operations) > 0
}

// AddGeneralization adds a supertype reference if not yet present
func (t *Type) AddGeneralization(qualifiedName string) {
	t.Generalizations = appendUnique(t.Generalizations, qualifiedName)
}

// AddRealization adds an interface realization if not yet present
func (t *Type) AddRealization(qualifiedName string) {
	t.Realizations = appendUnique(t.Realizations, qualifiedName)
}

// References returns all qualified type names the type refers to
func (t *Type) References(includeInstructions bool) []string {
	var result []string
	if t.Kind == KindArray && t.Element != "" {
		result = append(result, t.Element)
	}
	result = append(result, t.Generalizations...)
	result = append(result, t.Realizations...)
	for _, property := range t.Properties {
		if property.Type != "" {
			result = append(result, property.Type)
		}
	}
	for _, operation := range t.Operations {
		for _, param := range operation.Parameters {
			result = append(result, param.Type)
		}
		if operation.Return != "" {
			result = append(result, operation.Return)
		}
		result = append(result, operation.Exceptions...)
		if includeInstructions {
			result = append(result, operation.References...)
		}
	}
	return result
}

// Containers returns enclosing types, the innermost first
func (t *Type) Containers() []*Type {
	var result []*Type
	for owner := t.Owner; owner != nil; owner = owner.Owner {
		result = append(result, owner)
	}
	return result
}

func (t *Type) removeArray(array *Type) {
	for i, candidate := range t.arrays {
		if candidate == array {
			t.arrays = append(t.arrays[:i], t.arrays[i+1:]...)
			return
		}
	}
}

func (t *Type) removeNested(nested *Type) {
	for i, candidate := range t.Types {
		if candidate == nested {
			t.Types = append(t.Types[:i], t.Types[i+1:]...)
			return
		}
	}
}
