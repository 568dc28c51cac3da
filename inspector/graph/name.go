package graph

import "strings"

// Name identifies a type within a model: package, nesting path and array rank.
type Name struct {
	Package string   // dotted package, empty for the root package
	Path    []string // outermost type first
	Rank    int      // array dimensions, 0 for non-array types
}

// NewName creates a name for the supplied package and nesting path
func NewName(pkg string, path ...string) Name {
	return Name{Package: pkg, Path: path}
}

// String returns qualified name, i.e. a.b.Outer.Inner[]
func (n Name) String() string {
	builder := strings.Builder{}
	if n.Package != "" {
		builder.WriteString(n.Package)
		if len(n.Path) > 0 {
			builder.WriteByte('.')
		}
	}
	builder.WriteString(strings.Join(n.Path, "."))
	for i := 0; i < n.Rank; i++ {
		builder.WriteString("[]")
	}
	return builder.String()
}

// SimpleName returns the innermost type name including array brackets
func (n Name) SimpleName() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[len(n.Path)-1] + strings.Repeat("[]", n.Rank)
}

// Element returns the non-array name
func (n Name) Element() Name {
	return Name{Package: n.Package, Path: n.Path}
}

// Array returns array name with the supplied rank
func (n Name) Array(rank int) Name {
	return Name{Package: n.Package, Path: n.Path, Rank: rank}
}

// Owner returns the enclosing type name
func (n Name) Owner() (Name, bool) {
	if len(n.Path) < 2 {
		return Name{}, false
	}
	return Name{Package: n.Package, Path: n.Path[:len(n.Path)-1]}, true
}

// IsValid returns true if name has at least one type segment
func (n Name) IsValid() bool {
	return len(n.Path) > 0
}
