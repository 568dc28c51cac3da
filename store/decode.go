package store

import (
	"fmt"

	"github.com/viant/classmodel/inspector/graph"
)

// model rebuilds the model, array types are created once all element types exist
func (d *document) model() (*graph.Model, error) {
	model := graph.New(d.Name)
	model.Comment = d.Comment
	model.Annotation = d.Annotation
	var arrays []*typeNode
	if err := loadTypes(model, "", nil, d.Types, &arrays); err != nil {
		return nil, err
	}
	for _, pkg := range d.Packages {
		if err := loadPackage(model, "", pkg, &arrays); err != nil {
			return nil, err
		}
	}
	for _, node := range arrays {
		element := model.Lookup(node.Element)
		if element == nil {
			return nil, fmt.Errorf("array %s: %w", node.Name, &graph.NotFoundError{Kind: "type", Name: node.Element})
		}
		aType, _ := model.LookupOrCreate(element.Identity().Array(node.Rank), graph.KindArray)
		if err := apply(aType, node); err != nil {
			return nil, err
		}
	}
	return model, nil
}

func loadPackage(model *graph.Model, parent string, node *packageNode, arrays *[]*typeNode) error {
	qualifiedName := node.Name
	if parent != "" {
		qualifiedName = parent + "." + node.Name
	}
	pkg := model.Package(qualifiedName)
	pkg.Annotation = node.Annotation
	if err := loadTypes(model, qualifiedName, nil, node.Types, arrays); err != nil {
		return err
	}
	for _, child := range node.Packages {
		if err := loadPackage(model, qualifiedName, child, arrays); err != nil {
			return err
		}
	}
	return nil
}

func loadTypes(model *graph.Model, pkg string, owner []string, nodes []*typeNode, arrays *[]*typeNode) error {
	for _, node := range nodes {
		if node.Kind == graph.KindArray.String() {
			*arrays = append(*arrays, node)
			continue
		}
		path := append(append([]string(nil), owner...), node.Name)
		kind, err := graph.ParseKind(node.Kind)
		if err != nil {
			return err
		}
		aType, _ := model.LookupOrCreate(graph.NewName(pkg, path...), kind)
		if err = apply(aType, node); err != nil {
			return err
		}
		if err = loadTypes(model, pkg, path, node.Types, arrays); err != nil {
			return err
		}
	}
	return nil
}

func apply(aType *graph.Type, node *typeNode) error {
	kind, err := graph.ParseKind(node.Kind)
	if err != nil {
		return fmt.Errorf("type %s: %w", aType.QualifiedName, err)
	}
	if aType.Visibility, err = graph.ParseVisibility(node.Visibility); err != nil {
		return fmt.Errorf("type %s: %w", aType.QualifiedName, err)
	}
	aType.Kind = kind
	aType.IsAbstract = node.Abstract
	aType.IsLeaf = node.Leaf
	aType.Generalizations = node.Generalizations
	aType.Realizations = node.Realizations
	aType.Annotation = node.Annotation
	for _, property := range node.Properties {
		visibility, err := graph.ParseVisibility(property.Visibility)
		if err != nil {
			return fmt.Errorf("property %s.%s: %w", aType.QualifiedName, property.Name, err)
		}
		aType.AddProperty(&graph.Property{
			Name:       property.Name,
			Type:       property.Type,
			IsStatic:   property.Static,
			IsReadOnly: property.ReadOnly,
			IsLeaf:     property.Leaf,
			Visibility: visibility,
			Annotated:  graph.Annotated{Annotation: property.Annotation},
		})
	}
	for _, operation := range node.Operations {
		visibility, err := graph.ParseVisibility(operation.Visibility)
		if err != nil {
			return fmt.Errorf("operation %s.%s: %w", aType.QualifiedName, operation.Name, err)
		}
		anOperation := &graph.Operation{
			Name:       operation.Name,
			Return:     operation.Return,
			Exceptions: operation.Exceptions,
			References: operation.References,
			IsStatic:   operation.Static,
			IsAbstract: operation.Abstract,
			IsLeaf:     operation.Leaf,
			Visibility: visibility,
			Annotated:  graph.Annotated{Annotation: operation.Annotation},
		}
		for _, param := range operation.Parameters {
			anOperation.Parameters = append(anOperation.Parameters, &graph.Parameter{Name: param.Name, Type: param.Type})
		}
		aType.AddOperation(anOperation)
	}
	return nil
}
