package classfile

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RefKind represents type reference category
type RefKind uint8

const (
	RefBasic RefKind = iota + 1
	RefObject
	RefArray
)

// TypeRef represents a parsed field type descriptor
type TypeRef struct {
	Kind RefKind
	Name string   // primitive keyword or binary class name
	Elem *TypeRef // array element, never an array itself
	Rank int      // array dimensions
}

// ClassName returns binary class name of object or object array reference
func (r TypeRef) ClassName() string {
	switch r.Kind {
	case RefObject:
		return r.Name
	case RefArray:
		if r.Elem != nil {
			return r.Elem.ClassName()
		}
	}
	return ""
}

func (r TypeRef) String() string {
	switch r.Kind {
	case RefArray:
		if r.Elem == nil {
			return ""
		}
		return r.Elem.String() + strings.Repeat("[]", r.Rank)
	}
	return r.Name
}

// MethodDescriptor represents a parsed method descriptor
type MethodDescriptor struct {
	Parameters []TypeRef
	Return     *TypeRef
}

var basicTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

const descriptorCacheSize = 8192

var (
	fieldDescriptors, _  = lru.New[string, TypeRef](descriptorCacheSize)
	methodDescriptors, _ = lru.New[string, *MethodDescriptor](descriptorCacheSize)
)

// ParseFieldDescriptor parses field descriptor, i.e. [Ljava/lang/String;
func ParseFieldDescriptor(descriptor string) (TypeRef, error) {
	if ref, ok := fieldDescriptors.Get(descriptor); ok {
		return ref, nil
	}
	ref, next, err := parseType(descriptor, 0)
	if err != nil {
		return TypeRef{}, err
	}
	if next != len(descriptor) {
		return TypeRef{}, fmt.Errorf("invalid field descriptor %q: trailing data", descriptor)
	}
	fieldDescriptors.Add(descriptor, ref)
	return ref, nil
}

// ParseMethodDescriptor parses method descriptor, i.e. (I[J)Ljava/lang/Object;
func ParseMethodDescriptor(descriptor string) (*MethodDescriptor, error) {
	if ret, ok := methodDescriptors.Get(descriptor); ok {
		return ret, nil
	}
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return nil, fmt.Errorf("invalid method descriptor %q", descriptor)
	}
	ret := &MethodDescriptor{}
	pos := 1
	for pos < len(descriptor) && descriptor[pos] != ')' {
		ref, next, err := parseType(descriptor, pos)
		if err != nil {
			return nil, err
		}
		ret.Parameters = append(ret.Parameters, ref)
		pos = next
	}
	if pos >= len(descriptor) {
		return nil, fmt.Errorf("invalid method descriptor %q: missing ')'", descriptor)
	}
	pos++
	if pos < len(descriptor) && descriptor[pos] == 'V' {
		if pos+1 != len(descriptor) {
			return nil, fmt.Errorf("invalid method descriptor %q: trailing data", descriptor)
		}
	} else {
		ref, next, err := parseType(descriptor, pos)
		if err != nil {
			return nil, err
		}
		if next != len(descriptor) {
			return nil, fmt.Errorf("invalid method descriptor %q: trailing data", descriptor)
		}
		ret.Return = &ref
	}
	methodDescriptors.Add(descriptor, ret)
	return ret, nil
}

// ParseClassOperand parses CONSTANT_Class name, which is either internal name or array descriptor
func ParseClassOperand(name string) (TypeRef, error) {
	if strings.HasPrefix(name, "[") {
		return ParseFieldDescriptor(name)
	}
	if name == "" {
		return TypeRef{}, fmt.Errorf("empty class name")
	}
	return TypeRef{Kind: RefObject, Name: BinaryName(name)}, nil
}

// BinaryName converts internal name (a/b/C$D) to binary name (a.b.C$D)
func BinaryName(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

func parseType(descriptor string, pos int) (TypeRef, int, error) {
	rank := 0
	for pos < len(descriptor) && descriptor[pos] == '[' {
		rank++
		pos++
	}
	if pos >= len(descriptor) {
		return TypeRef{}, pos, fmt.Errorf("invalid descriptor %q: unexpected end", descriptor)
	}
	var elem TypeRef
	switch c := descriptor[pos]; c {
	case 'L':
		end := strings.IndexByte(descriptor[pos:], ';')
		if end <= 1 {
			return TypeRef{}, pos, fmt.Errorf("invalid descriptor %q: unterminated class name", descriptor)
		}
		elem = TypeRef{Kind: RefObject, Name: BinaryName(descriptor[pos+1 : pos+end])}
		pos += end + 1
	default:
		name, ok := basicTypes[c]
		if !ok {
			return TypeRef{}, pos, fmt.Errorf("invalid descriptor %q: unexpected %q at %d", descriptor, c, pos)
		}
		elem = TypeRef{Kind: RefBasic, Name: name}
		pos++
	}
	if rank == 0 {
		return elem, pos, nil
	}
	return TypeRef{Kind: RefArray, Elem: &elem, Rank: rank}, pos, nil
}
