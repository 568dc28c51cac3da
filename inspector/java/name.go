package java

import (
	"strings"

	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/graph"
)

// TypeName converts binary class name (a.b.Outer$Inner) to model type name
func TypeName(binaryName string) graph.Name {
	pkg := ""
	simple := binaryName
	if idx := strings.LastIndexByte(binaryName, '.'); idx != -1 {
		pkg, simple = binaryName[:idx], binaryName[idx+1:]
	}
	var path []string
	for _, segment := range strings.Split(simple, "$") {
		if segment != "" {
			path = append(path, segment)
		}
	}
	if len(path) == 0 {
		path = []string{simple}
	}
	return graph.NewName(pkg, path...)
}

// QualifiedName returns model qualified name for binary class name
func QualifiedName(binaryName string) string {
	return TypeName(binaryName).String()
}

// RefName converts descriptor type reference to model type name
func RefName(ref classfile.TypeRef) graph.Name {
	switch ref.Kind {
	case classfile.RefBasic:
		return graph.NewName("", ref.Name)
	case classfile.RefObject:
		return TypeName(ref.Name)
	case classfile.RefArray:
		if ref.Elem != nil {
			return RefName(*ref.Elem).Array(ref.Rank)
		}
	}
	return graph.Name{}
}

func refKind(ref classfile.TypeRef) graph.Kind {
	elem := ref
	if ref.Kind == classfile.RefArray && ref.Elem != nil {
		elem = *ref.Elem
	}
	if elem.Kind == classfile.RefBasic {
		return graph.KindDataType
	}
	return graph.KindClass
}

func visibility(access classfile.AccessFlags) graph.Visibility {
	switch {
	case access.IsPublic():
		return graph.VisibilityPublic
	case access.IsProtected():
		return graph.VisibilityProtected
	case access.IsPrivate():
		return graph.VisibilityPrivate
	}
	return graph.VisibilityPackage
}
