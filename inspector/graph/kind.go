package graph

import "fmt"

// Kind represents type category
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindDataType
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindDataType:
		return "datatype"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// ParseKind parses kind name
func ParseKind(text string) (Kind, error) {
	switch text {
	case "class", "":
		return KindClass, nil
	case "interface":
		return KindInterface, nil
	case "datatype":
		return KindDataType, nil
	case "array":
		return KindArray, nil
	}
	return KindClass, fmt.Errorf("invalid type kind: %q", text)
}

// Visibility represents element visibility, ordered from the narrowest to the widest
type Visibility uint8

const (
	VisibilityUnset Visibility = iota
	VisibilityPrivate
	VisibilityPackage
	VisibilityProtected
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityUnset:
		return ""
	case VisibilityPrivate:
		return "private"
	case VisibilityPackage:
		return "package"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	}
	return "unknown"
}

// Widen returns the wider of both visibilities
func (v Visibility) Widen(other Visibility) Visibility {
	if other > v {
		return other
	}
	return v
}

// ParseVisibility parses visibility name
func ParseVisibility(text string) (Visibility, error) {
	switch text {
	case "":
		return VisibilityUnset, nil
	case "private":
		return VisibilityPrivate, nil
	case "package":
		return VisibilityPackage, nil
	case "protected":
		return VisibilityProtected, nil
	case "public":
		return VisibilityPublic, nil
	}
	return VisibilityUnset, fmt.Errorf("invalid visibility: %q", text)
}
