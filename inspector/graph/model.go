package graph

import "strings"

// Package represents a namespace node
type Package struct {
	Name          string
	QualifiedName string
	Packages      []*Package
	Types         []*Type
	Parent        *Package
	Annotated

	packageMap map[string]int
}

// Package retrieves a direct sub package by name
func (p *Package) Package(name string) *Package {
	if idx, ok := p.packageMap[name]; ok && idx < len(p.Packages) {
		return p.Packages[idx]
	}
	return nil
}

func (p *Package) addPackage(pkg *Package) {
	if p.packageMap == nil {
		p.packageMap = make(map[string]int)
	}
	p.Packages = append(p.Packages, pkg)
	p.packageMap[pkg.Name] = len(p.Packages) - 1
}

func (p *Package) removePackage(name string) {
	idx, ok := p.packageMap[name]
	if !ok {
		return
	}
	p.Packages = append(p.Packages[:idx], p.Packages[idx+1:]...)
	delete(p.packageMap, name)
	for i := idx; i < len(p.Packages); i++ {
		p.packageMap[p.Packages[i].Name] = i
	}
}

func (p *Package) removeType(aType *Type) {
	for i, candidate := range p.Types {
		if candidate == aType {
			p.Types = append(p.Types[:i], p.Types[i+1:]...)
			return
		}
	}
}

// IsEmpty returns true if package and its sub packages hold no types
func (p *Package) IsEmpty() bool {
	if len(p.Types) > 0 {
		return false
	}
	for _, pkg := range p.Packages {
		if !pkg.IsEmpty() {
			return false
		}
	}
	return true
}

// Model represents root container of a reverse-engineered code base
type Model struct {
	Name    string
	Comment string
	Root    *Package
	Annotated

	index map[string]*Type
	types []*Type
}

// New creates an empty model
func New(name string) *Model {
	return &Model{
		Name:  name,
		Root:  &Package{},
		index: make(map[string]*Type),
	}
}

// Lookup returns a type by qualified name
func (m *Model) Lookup(qualifiedName string) *Type {
	return m.index[qualifiedName]
}

// Types returns all types in creation order
func (m *Model) Types() []*Type {
	return append([]*Type(nil), m.types...)
}

// TypesSince returns types created after the model held the supplied number of types
func (m *Model) TypesSince(count int) []*Type {
	if count >= len(m.types) {
		return nil
	}
	return append([]*Type(nil), m.types[count:]...)
}

// Len returns number of types
func (m *Model) Len() int {
	return len(m.types)
}

// LookupPackage returns an existing package by qualified name
func (m *Model) LookupPackage(qualifiedName string) *Package {
	pkg := m.Root
	if qualifiedName == "" {
		return pkg
	}
	for _, segment := range strings.Split(qualifiedName, ".") {
		if pkg = pkg.Package(segment); pkg == nil {
			return nil
		}
	}
	return pkg
}

// Package returns a package by qualified name, creating missing nodes
func (m *Model) Package(qualifiedName string) *Package {
	pkg := m.Root
	if qualifiedName == "" {
		return pkg
	}
	for _, segment := range strings.Split(qualifiedName, ".") {
		child := pkg.Package(segment)
		if child == nil {
			child = &Package{Name: segment, QualifiedName: segment, Parent: pkg}
			if pkg.QualifiedName != "" {
				child.QualifiedName = pkg.QualifiedName + "." + segment
			}
			pkg.addPackage(child)
		}
		pkg = child
	}
	return pkg
}

// LookupOrCreate returns a type for the supplied name, creating it with kind if missing.
// Owners of nested types and elements of array types are created as needed.
func (m *Model) LookupOrCreate(name Name, kind Kind) (*Type, bool) {
	qualifiedName := name.String()
	if aType, ok := m.index[qualifiedName]; ok {
		return aType, false
	}
	aType := &Type{
		Name:          name.SimpleName(),
		QualifiedName: qualifiedName,
		Kind:          kind,
		name:          name,
		model:         m,
	}
	if name.Rank > 0 {
		elementKind := kind
		if elementKind == KindArray {
			elementKind = KindClass
		}
		element, _ := m.LookupOrCreate(name.Element(), elementKind)
		aType.Kind = KindArray
		aType.Element = element.QualifiedName
		aType.Rank = name.Rank
		aType.Visibility = element.Visibility
		element.arrays = append(element.arrays, aType)
		m.attach(aType, element.Owner, element.Package)
	} else if ownerName, ok := name.Owner(); ok {
		owner, _ := m.LookupOrCreate(ownerName, KindClass)
		m.attach(aType, owner, owner.Package)
	} else {
		m.attach(aType, nil, m.Package(name.Package))
	}
	m.index[qualifiedName] = aType
	m.types = append(m.types, aType)
	return aType, true
}

func (m *Model) attach(aType *Type, owner *Type, pkg *Package) {
	aType.Package = pkg
	aType.Owner = owner
	if owner != nil {
		owner.Types = append(owner.Types, aType)
		return
	}
	pkg.Types = append(pkg.Types, aType)
}

// RemoveType removes type with its nested types and array wrappers, returns removed types
func (m *Model) RemoveType(aType *Type) []*Type {
	return m.RemoveTypes([]*Type{aType})
}

// RemoveTypes removes types with their nested types and array wrappers, returns removed types
func (m *Model) RemoveTypes(types []*Type) []*Type {
	removed := make(map[string]*Type)
	var collect func(t *Type)
	collect = func(t *Type) {
		if _, ok := removed[t.QualifiedName]; ok {
			return
		}
		if m.index[t.QualifiedName] != t {
			return
		}
		removed[t.QualifiedName] = t
		for _, nested := range t.Types {
			collect(nested)
		}
	}
	for _, t := range types {
		collect(t)
	}
	for _, t := range m.types {
		if t.Kind == KindArray {
			if _, ok := removed[t.Element]; ok {
				collect(t)
			}
		}
	}
	if len(removed) == 0 {
		return nil
	}
	var result []*Type
	kept := m.types[:0]
	for _, t := range m.types {
		if _, ok := removed[t.QualifiedName]; !ok {
			kept = append(kept, t)
			continue
		}
		result = append(result, t)
		if element := m.index[t.Element]; t.Kind == KindArray && element != nil {
			element.removeArray(t)
		}
		delete(m.index, t.QualifiedName)
		if t.Owner != nil {
			t.Owner.removeNested(t)
		} else if t.Package != nil {
			t.Package.removeType(t)
		}
	}
	for i := len(kept); i < len(m.types); i++ {
		m.types[i] = nil
	}
	m.types = kept
	return result
}

// PruneEmptyPackages removes packages without types, returns number of removed packages
func (m *Model) PruneEmptyPackages() int {
	return pruneEmpty(m.Root)
}

func pruneEmpty(pkg *Package) int {
	count := 0
	for _, child := range append([]*Package(nil), pkg.Packages...) {
		count += pruneEmpty(child)
		if child.IsEmpty() {
			pkg.removePackage(child.Name)
			count++
		}
	}
	return count
}
