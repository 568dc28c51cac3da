package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const magic = 0xCAFEBABE

// constant pool tags
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

var errTruncated = errors.New("truncated classfile")

type constant struct {
	tag   uint8
	text  string // utf8
	index uint16 // class name, nameAndType name, member class
	other uint16 // nameAndType descriptor, member nameAndType
}

type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) u1() uint8 {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.err = errTruncated
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u2() uint16 {
	if r.err != nil || r.pos+2 > len(r.data) {
		r.err = errTruncated
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u4() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.err = errTruncated
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.data) {
		r.err = errTruncated
		return nil
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v
}

type decoder struct {
	reader
	pool []constant
}

// Decode decodes classfile bytes into a class record
func Decode(data []byte) (*Class, error) {
	d := &decoder{reader: reader{data: data}}
	class, err := d.decode()
	if err != nil {
		return nil, err
	}
	return class, nil
}

func (d *decoder) decode() (*Class, error) {
	if d.u4() != magic {
		if d.err != nil {
			return nil, d.err
		}
		return nil, fmt.Errorf("invalid classfile magic")
	}
	ret := &Class{}
	ret.Minor = d.u2()
	ret.Major = d.u2()
	if err := d.readPool(); err != nil {
		return nil, err
	}
	ret.Access = AccessFlags(d.u2())
	thisName, err := d.className(d.u2())
	if err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	ret.Name = BinaryName(thisName)
	if superIndex := d.u2(); superIndex != 0 {
		superName, err := d.className(superIndex)
		if err != nil {
			return nil, fmt.Errorf("super_class: %w", err)
		}
		ret.Super = BinaryName(superName)
	}
	count := int(d.u2())
	for i := 0; i < count; i++ {
		name, err := d.className(d.u2())
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		ret.Interfaces = append(ret.Interfaces, BinaryName(name))
	}
	if ret.Fields, err = d.readFields(); err != nil {
		return nil, err
	}
	if ret.Methods, err = d.readMethods(); err != nil {
		return nil, err
	}
	count = int(d.u2())
	for i := 0; i < count; i++ {
		name, body, err := d.attribute()
		if err != nil {
			return nil, err
		}
		if name == "InnerClasses" {
			if err = d.readInnerClasses(body, thisName, ret); err != nil {
				return nil, fmt.Errorf("InnerClasses: %w", err)
			}
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return ret, nil
}

func (d *decoder) readPool() error {
	count := int(d.u2())
	if d.err != nil {
		return d.err
	}
	d.pool = make([]constant, count)
	for i := 1; i < count; i++ {
		tag := d.u1()
		entry := constant{tag: tag}
		switch tag {
		case tagUtf8:
			size := int(d.u2())
			entry.text = string(d.bytes(size))
		case tagInteger, tagFloat:
			d.u4()
		case tagLong, tagDouble:
			d.u4()
			d.u4()
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			entry.index = d.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			entry.index = d.u2()
			entry.other = d.u2()
		case tagMethodHandle:
			d.u1()
			entry.index = d.u2()
		default:
			if d.err != nil {
				return d.err
			}
			return fmt.Errorf("invalid constant pool tag %d at %d", tag, i)
		}
		if d.err != nil {
			return d.err
		}
		d.pool[i] = entry
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return nil
}

func (d *decoder) entry(index uint16, tag uint8) (*constant, error) {
	if int(index) <= 0 || int(index) >= len(d.pool) {
		return nil, fmt.Errorf("constant pool index %d out of range", index)
	}
	ret := &d.pool[index]
	if ret.tag != tag {
		return nil, fmt.Errorf("constant pool index %d: expected tag %d, had %d", index, tag, ret.tag)
	}
	return ret, nil
}

func (d *decoder) utf8(index uint16) (string, error) {
	entry, err := d.entry(index, tagUtf8)
	if err != nil {
		return "", err
	}
	return entry.text, nil
}

func (d *decoder) className(index uint16) (string, error) {
	entry, err := d.entry(index, tagClass)
	if err != nil {
		return "", err
	}
	return d.utf8(entry.index)
}

// memberDescriptor returns class and descriptor of a Fieldref/Methodref constant
func (d *decoder) memberDescriptor(index uint16) (string, string, error) {
	if int(index) <= 0 || int(index) >= len(d.pool) {
		return "", "", fmt.Errorf("constant pool index %d out of range", index)
	}
	member := d.pool[index]
	switch member.tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", "", fmt.Errorf("constant pool index %d: expected member reference, had %d", index, member.tag)
	}
	owner, err := d.className(member.index)
	if err != nil {
		return "", "", err
	}
	nameAndType, err := d.entry(member.other, tagNameAndType)
	if err != nil {
		return "", "", err
	}
	descriptor, err := d.utf8(nameAndType.other)
	return owner, descriptor, err
}

func (d *decoder) attribute() (string, []byte, error) {
	name, err := d.utf8(d.u2())
	if err != nil {
		if d.err != nil {
			return "", nil, d.err
		}
		return "", nil, fmt.Errorf("attribute name: %w", err)
	}
	size := int(d.u4())
	body := d.bytes(size)
	if d.err != nil {
		return "", nil, d.err
	}
	return name, body, nil
}

func (d *decoder) memberHeader() (AccessFlags, string, string, error) {
	access := AccessFlags(d.u2())
	name, err := d.utf8(d.u2())
	if err != nil {
		return 0, "", "", err
	}
	descriptor, err := d.utf8(d.u2())
	if err != nil {
		return 0, "", "", err
	}
	return access, name, descriptor, d.err
}

func (d *decoder) readFields() ([]*Field, error) {
	count := int(d.u2())
	var result []*Field
	for i := 0; i < count; i++ {
		access, name, descriptor, err := d.memberHeader()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		ref, err := ParseFieldDescriptor(descriptor)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		attributes := int(d.u2())
		for j := 0; j < attributes; j++ {
			if _, _, err = d.attribute(); err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
		}
		result = append(result, &Field{Name: name, Descriptor: descriptor, Type: ref, Access: access})
	}
	return result, d.err
}

func (d *decoder) readMethods() ([]*Method, error) {
	count := int(d.u2())
	var result []*Method
	for i := 0; i < count; i++ {
		access, name, descriptor, err := d.memberHeader()
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		signature, err := ParseMethodDescriptor(descriptor)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", name, err)
		}
		method := &Method{Name: name, Descriptor: descriptor, Access: access, Return: signature.Return}
		method.Parameters = make([]Parameter, len(signature.Parameters))
		for j, param := range signature.Parameters {
			method.Parameters[j] = Parameter{Name: fmt.Sprintf("arg%d", j), Type: param}
		}
		attributes := int(d.u2())
		for j := 0; j < attributes; j++ {
			attrName, body, err := d.attribute()
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", name, err)
			}
			switch attrName {
			case "Code":
				err = d.readCode(body, method)
			case "Exceptions":
				err = d.readExceptions(body, method)
			case "MethodParameters":
				err = d.readMethodParameters(body, method)
			}
			if err != nil {
				return nil, fmt.Errorf("method %s %s: %w", name, attrName, err)
			}
		}
		result = append(result, method)
	}
	return result, d.err
}

func (d *decoder) readExceptions(body []byte, method *Method) error {
	r := &reader{data: body}
	count := int(r.u2())
	for i := 0; i < count; i++ {
		name, err := d.className(r.u2())
		if err != nil {
			return err
		}
		method.Exceptions = append(method.Exceptions, BinaryName(name))
	}
	return r.err
}

func (d *decoder) readMethodParameters(body []byte, method *Method) error {
	r := &reader{data: body}
	count := int(r.u1())
	for i := 0; i < count && i < len(method.Parameters); i++ {
		nameIndex := r.u2()
		r.u2()
		if nameIndex == 0 {
			continue
		}
		name, err := d.utf8(nameIndex)
		if err != nil {
			return err
		}
		method.Parameters[i].Name = name
	}
	return r.err
}

func (d *decoder) readCode(body []byte, method *Method) error {
	r := &reader{data: body}
	r.u2() // max_stack
	r.u2() // max_locals
	size := int(r.u4())
	code := r.bytes(size)
	if r.err != nil {
		return r.err
	}
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		method.References = append(method.References, name)
	}
	err := scanInstructions(code, func(op opcode, operand uint16) error {
		names, err := d.operandClasses(op, operand)
		if err != nil {
			return err
		}
		for _, name := range names {
			add(name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	handlers := int(r.u2())
	for i := 0; i < handlers; i++ {
		r.bytes(6)
		if catchType := r.u2(); catchType != 0 {
			name, err := d.className(catchType)
			if err != nil {
				return err
			}
			add(BinaryName(name))
		}
	}
	return r.err
}

// operandClasses resolves class names referenced by an instruction constant pool operand
func (d *decoder) operandClasses(op opcode, operand uint16) ([]string, error) {
	switch op {
	case opLdc, opLdcW:
		if int(operand) >= len(d.pool) || d.pool[operand].tag != tagClass {
			return nil, nil
		}
		return d.classOperand(operand)
	case opNew, opANewArray, opCheckCast, opInstanceOf, opMultiANewArray:
		return d.classOperand(operand)
	case opGetStatic, opPutStatic, opGetField, opPutField:
		owner, descriptor, err := d.memberDescriptor(operand)
		if err != nil {
			return nil, err
		}
		ref, err := ParseFieldDescriptor(descriptor)
		if err != nil {
			return nil, err
		}
		return []string{ownerClass(owner), ref.ClassName()}, nil
	case opInvokeVirtual, opInvokeSpecial, opInvokeStatic, opInvokeInterface:
		owner, descriptor, err := d.memberDescriptor(operand)
		if err != nil {
			return nil, err
		}
		signature, err := ParseMethodDescriptor(descriptor)
		if err != nil {
			return nil, err
		}
		result := []string{ownerClass(owner)}
		for _, param := range signature.Parameters {
			result = append(result, param.ClassName())
		}
		if signature.Return != nil {
			result = append(result, signature.Return.ClassName())
		}
		return result, nil
	}
	return nil, nil
}

func (d *decoder) classOperand(index uint16) ([]string, error) {
	name, err := d.className(index)
	if err != nil {
		return nil, err
	}
	ref, err := ParseClassOperand(name)
	if err != nil {
		return nil, err
	}
	return []string{ref.ClassName()}, nil
}

// ownerClass returns binary class name of a member owner, which may be an array descriptor
func ownerClass(owner string) string {
	ref, err := ParseClassOperand(owner)
	if err != nil {
		return ""
	}
	return ref.ClassName()
}

func (d *decoder) readInnerClasses(body []byte, thisName string, class *Class) error {
	r := &reader{data: body}
	count := int(r.u2())
	for i := 0; i < count; i++ {
		innerIndex := r.u2()
		outerIndex := r.u2()
		r.u2() // inner_name_index, 0 for anonymous classes
		access := AccessFlags(r.u2())
		if r.err != nil {
			return r.err
		}
		inner, err := d.className(innerIndex)
		if err != nil {
			return err
		}
		if inner != thisName {
			continue
		}
		if outerIndex != 0 {
			outer, err := d.className(outerIndex)
			if err != nil {
				return err
			}
			class.Outer = BinaryName(outer)
		} else {
			class.Enclosed = true
		}
		class.Access = access | (class.Access & AccSuper)
	}
	return r.err
}
