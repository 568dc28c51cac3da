package classfile

import (
	"strconv"
	"strings"
)

// Kind represents declared class category
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindAnnotation
)

// Class represents a decoded classfile
type Class struct {
	Name       string // binary name, i.e. com.acme.Outer$Inner
	Access     AccessFlags
	Super      string // empty for java.lang.Object and module-info
	Interfaces []string
	Outer      string // declaring class for member classes
	Enclosed   bool   // local or anonymous class declared in a method body
	Fields     []*Field
	Methods    []*Method
	Major      uint16
	Minor      uint16
	Location   string // source entry the class was decoded from
}

// Field represents a decoded field_info
type Field struct {
	Name       string
	Descriptor string
	Type       TypeRef
	Access     AccessFlags
}

// Parameter represents a method parameter
type Parameter struct {
	Name string
	Type TypeRef
}

// Method represents a decoded method_info
type Method struct {
	Name       string
	Descriptor string
	Parameters []Parameter
	Return     *TypeRef // nil for void
	Access     AccessFlags
	Exceptions []string // binary names of declared exceptions
	References []string // class operands of body instructions
}

// IsConstructor returns true for instance initializers
func (m *Method) IsConstructor() bool {
	return m.Name == "<init>"
}

// IsInitializer returns true for static initializers
func (m *Method) IsInitializer() bool {
	return m.Name == "<clinit>"
}

// Kind returns class category
func (c *Class) Kind() Kind {
	switch {
	case c.Access.Has(AccAnnotation):
		return KindAnnotation
	case c.Access.Has(AccInterface):
		return KindInterface
	case c.Access.Has(AccEnum):
		return KindEnum
	}
	return KindClass
}

// Version returns major.minor bytecode version
func (c *Class) Version() string {
	return strconv.Itoa(int(c.Major)) + "." + strconv.Itoa(int(c.Minor))
}

// Package returns dotted package name
func (c *Class) Package() string {
	if idx := strings.LastIndexByte(c.Name, '.'); idx != -1 {
		return c.Name[:idx]
	}
	return ""
}

// References returns binary names of all classes this class refers to
func (c *Class) References(includeInstructions bool) []string {
	var result []string
	add := func(name string) {
		if name != "" {
			result = append(result, name)
		}
	}
	add(c.Super)
	for _, name := range c.Interfaces {
		add(name)
	}
	add(c.Outer)
	for _, field := range c.Fields {
		add(field.Type.ClassName())
	}
	for _, method := range c.Methods {
		for _, param := range method.Parameters {
			add(param.Type.ClassName())
		}
		if method.Return != nil {
			add(method.Return.ClassName())
		}
		for _, name := range method.Exceptions {
			add(name)
		}
		if includeInstructions {
			for _, name := range method.References {
				add(name)
			}
		}
	}
	return result
}
