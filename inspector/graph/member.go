package graph

import "strings"

// Property represents a field-like member
type Property struct {
	Name       string
	Type       string // qualified type name
	IsStatic   bool
	IsReadOnly bool
	IsLeaf     bool
	Visibility Visibility
	Annotated
}

// Clone creates a copy of the property
func (p *Property) Clone() *Property {
	ret := *p
	ret.Annotation = p.CloneAnnotation()
	return &ret
}

// Parameter represents an operation parameter
type Parameter struct {
	Name string
	Type string // qualified type name
}

// Operation represents a method-like member
type Operation struct {
	Name       string
	Parameters []*Parameter
	Return     string   // qualified return type name, empty for void
	Exceptions []string // raised exception types
	References []string // instruction operand type references
	IsStatic   bool
	IsAbstract bool
	IsLeaf     bool
	Visibility Visibility
	Annotated
}

// Signature returns name with parameter types, used as member identity
func (o *Operation) Signature() string {
	builder := strings.Builder{}
	builder.WriteString(o.Name)
	builder.WriteByte('(')
	for i, param := range o.Parameters {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(param.Type)
	}
	builder.WriteByte(')')
	return builder.String()
}

// AddReference adds instruction reference if not yet present
func (o *Operation) AddReference(typeName string) {
	o.References = appendUnique(o.References, typeName)
}

// AddException adds raised exception if not yet present
func (o *Operation) AddException(typeName string) {
	o.Exceptions = appendUnique(o.Exceptions, typeName)
}

// Clone creates a deep copy of the operation
func (o *Operation) Clone() *Operation {
	ret := *o
	ret.Parameters = make([]*Parameter, len(o.Parameters))
	for i, param := range o.Parameters {
		p := *param
		ret.Parameters[i] = &p
	}
	ret.Exceptions = append([]string(nil), o.Exceptions...)
	ret.References = append([]string(nil), o.References...)
	ret.Annotation = o.CloneAnnotation()
	return &ret
}

func appendUnique(items []string, item string) []string {
	for _, candidate := range items {
		if candidate == item {
			return items
		}
	}
	return append(items, item)
}
