package store

import "github.com/viant/classmodel/inspector/graph"

type document struct {
	Name        string            `yaml:"name"`
	Comment     string            `yaml:"comment,omitempty"`
	Fingerprint string            `yaml:"fingerprint"`
	Annotation  *graph.Annotation `yaml:"annotation,omitempty"`
	Types       []*typeNode       `yaml:"types,omitempty"`
	Packages    []*packageNode    `yaml:"packages,omitempty"`
}

type packageNode struct {
	Name       string            `yaml:"name"`
	Annotation *graph.Annotation `yaml:"annotation,omitempty"`
	Types      []*typeNode       `yaml:"types,omitempty"`
	Packages   []*packageNode    `yaml:"packages,omitempty"`
}

type typeNode struct {
	Name            string            `yaml:"name"`
	Kind            string            `yaml:"kind"`
	Visibility      string            `yaml:"visibility,omitempty"`
	Abstract        bool              `yaml:"abstract,omitempty"`
	Leaf            bool              `yaml:"leaf,omitempty"`
	Element         string            `yaml:"element,omitempty"`
	Rank            int               `yaml:"rank,omitempty"`
	Generalizations []string          `yaml:"generalizations,omitempty"`
	Realizations    []string          `yaml:"realizations,omitempty"`
	Annotation      *graph.Annotation `yaml:"annotation,omitempty"`
	Properties      []*propertyNode   `yaml:"properties,omitempty"`
	Operations      []*operationNode  `yaml:"operations,omitempty"`
	Types           []*typeNode       `yaml:"types,omitempty"`
}

type propertyNode struct {
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Visibility string            `yaml:"visibility,omitempty"`
	Static     bool              `yaml:"static,omitempty"`
	ReadOnly   bool              `yaml:"readOnly,omitempty"`
	Leaf       bool              `yaml:"leaf,omitempty"`
	Annotation *graph.Annotation `yaml:"annotation,omitempty"`
}

type parameterNode struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type operationNode struct {
	Name       string            `yaml:"name"`
	Parameters []*parameterNode  `yaml:"parameters,omitempty"`
	Return     string            `yaml:"return,omitempty"`
	Exceptions []string          `yaml:"exceptions,omitempty"`
	References []string          `yaml:"references,omitempty"`
	Visibility string            `yaml:"visibility,omitempty"`
	Static     bool              `yaml:"static,omitempty"`
	Abstract   bool              `yaml:"abstract,omitempty"`
	Leaf       bool              `yaml:"leaf,omitempty"`
	Annotation *graph.Annotation `yaml:"annotation,omitempty"`
}

func newDocument(model *graph.Model, fingerprint string) *document {
	ret := &document{
		Name:        model.Name,
		Comment:     model.Comment,
		Fingerprint: fingerprint,
		Annotation:  model.CloneAnnotation(),
		Types:       newTypeNodes(model.Root.Types),
	}
	for _, pkg := range model.Root.Packages {
		ret.Packages = append(ret.Packages, newPackageNode(pkg))
	}
	return ret
}

func newPackageNode(pkg *graph.Package) *packageNode {
	ret := &packageNode{Name: pkg.Name, Annotation: pkg.CloneAnnotation(), Types: newTypeNodes(pkg.Types)}
	for _, child := range pkg.Packages {
		ret.Packages = append(ret.Packages, newPackageNode(child))
	}
	return ret
}

func newTypeNodes(types []*graph.Type) []*typeNode {
	var result []*typeNode
	for _, aType := range types {
		result = append(result, newTypeNode(aType))
	}
	return result
}

func newTypeNode(aType *graph.Type) *typeNode {
	ret := &typeNode{
		Name:            aType.Name,
		Kind:            aType.Kind.String(),
		Visibility:      aType.Visibility.String(),
		Abstract:        aType.IsAbstract,
		Leaf:            aType.IsLeaf,
		Element:         aType.Element,
		Rank:            aType.Rank,
		Generalizations: aType.Generalizations,
		Realizations:    aType.Realizations,
		Annotation:      aType.Annotation,
		Types:           newTypeNodes(aType.Types),
	}
	for _, property := range aType.Properties {
		ret.Properties = append(ret.Properties, &propertyNode{
			Name:       property.Name,
			Type:       property.Type,
			Visibility: property.Visibility.String(),
			Static:     property.IsStatic,
			ReadOnly:   property.IsReadOnly,
			Leaf:       property.IsLeaf,
			Annotation: property.Annotation,
		})
	}
	for _, operation := range aType.Operations {
		node := &operationNode{
			Name:       operation.Name,
			Return:     operation.Return,
			Exceptions: operation.Exceptions,
			References: operation.References,
			Visibility: operation.Visibility.String(),
			Static:     operation.IsStatic,
			Abstract:   operation.IsAbstract,
			Leaf:       operation.IsLeaf,
			Annotation: operation.Annotation,
		}
		for _, param := range operation.Parameters {
			node.Parameters = append(node.Parameters, &parameterNode{Name: param.Name, Type: param.Type})
		}
		ret.Operations = append(ret.Operations, node)
	}
	return ret
}
