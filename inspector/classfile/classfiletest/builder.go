// Package classfiletest emits minimal classfile bytes for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
)

const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccSuper     = 0x0020
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
)

type member struct {
	access     uint16
	name       string
	descriptor string
	code       []byte
	exceptions []string
	news       []string
	params     []string
}

type inner struct {
	inner, outer, name string
	access             uint16
}

// Builder assembles a class file
type Builder struct {
	name       string
	access     uint16
	super      string
	interfaces []string
	fields     []member
	methods    []member
	inners     []inner
	major      uint16

	pool    bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

// New creates a builder for internal class name, i.e. com/acme/A
func New(name string) *Builder {
	return &Builder{
		name:   name,
		access: AccPublic | AccSuper,
		super:  "java/lang/Object",
		major:  52,
		count:  1,
	}
}

// Access sets class access flags
func (b *Builder) Access(access uint16) *Builder {
	b.access = access
	return b
}

// Super sets super class internal name, empty for none
func (b *Builder) Super(name string) *Builder {
	b.super = name
	return b
}

// Version sets major version
func (b *Builder) Version(major uint16) *Builder {
	b.major = major
	return b
}

// Interface adds implemented interface
func (b *Builder) Interface(name string) *Builder {
	b.interfaces = append(b.interfaces, name)
	return b
}

// Field adds a field
func (b *Builder) Field(access uint16, name, descriptor string) *Builder {
	b.fields = append(b.fields, member{access: access, name: name, descriptor: descriptor})
	return b
}

// Method adds a method; a non-abstract method gets a body with `new` for every referenced class
func (b *Builder) Method(access uint16, name, descriptor string, references ...string) *Builder {
	m := member{access: access, name: name, descriptor: descriptor}
	if access&AccAbstract == 0 {
		m.code = []byte{}
		for range references {
			m.code = append(m.code, 0xbb, 0, 0, 0x57) // new #ref, pop
		}
		m.news = references
		m.code = append(m.code, 0xb1) // return
	}
	b.methods = append(b.methods, m)
	return b
}

// Throws adds declared exceptions to the last method
func (b *Builder) Throws(names ...string) *Builder {
	last := &b.methods[len(b.methods)-1]
	last.exceptions = append(last.exceptions, names...)
	return b
}

// ParameterNames adds MethodParameters to the last method
func (b *Builder) ParameterNames(names ...string) *Builder {
	b.methods[len(b.methods)-1].params = names
	return b
}

// Inner adds InnerClasses entry, empty outerName marks a local class, empty simpleName an anonymous one
func (b *Builder) Inner(innerName, outerName, simpleName string, access uint16) *Builder {
	b.inners = append(b.inners, inner{inner: innerName, outer: outerName, name: simpleName, access: access})
	return b
}

// Bytes returns encoded class file
func (b *Builder) Bytes() []byte {
	b.pool.Reset()
	b.count = 1
	b.utf8s = map[string]uint16{}
	b.classes = map[string]uint16{}

	body := &bytes.Buffer{}
	u2 := func(v uint16) { _ = binary.Write(body, binary.BigEndian, v) }
	u2(b.access)
	u2(b.class(b.name))
	if b.super == "" {
		u2(0)
	} else {
		u2(b.class(b.super))
	}
	u2(uint16(len(b.interfaces)))
	for _, name := range b.interfaces {
		u2(b.class(name))
	}
	u2(uint16(len(b.fields)))
	for _, f := range b.fields {
		u2(f.access)
		u2(b.utf8(f.name))
		u2(b.utf8(f.descriptor))
		u2(0)
	}
	u2(uint16(len(b.methods)))
	for _, m := range b.methods {
		u2(m.access)
		u2(b.utf8(m.name))
		u2(b.utf8(m.descriptor))
		var attributes [][]byte
		if m.code != nil {
			attributes = append(attributes, b.codeAttribute(m.code, m.news))
		}
		if throws := m.exceptions; len(throws) > 0 {
			attr := &bytes.Buffer{}
			_ = binary.Write(attr, binary.BigEndian, uint16(len(throws)))
			for _, name := range throws {
				_ = binary.Write(attr, binary.BigEndian, b.class(name))
			}
			attributes = append(attributes, b.attribute("Exceptions", attr.Bytes()))
		}
		if len(m.params) > 0 {
			attr := &bytes.Buffer{}
			attr.WriteByte(byte(len(m.params)))
			for _, name := range m.params {
				_ = binary.Write(attr, binary.BigEndian, b.utf8(name))
				_ = binary.Write(attr, binary.BigEndian, uint16(0))
			}
			attributes = append(attributes, b.attribute("MethodParameters", attr.Bytes()))
		}
		u2(uint16(len(attributes)))
		for _, attr := range attributes {
			body.Write(attr)
		}
	}
	if len(b.inners) == 0 {
		u2(0)
	} else {
		attr := &bytes.Buffer{}
		_ = binary.Write(attr, binary.BigEndian, uint16(len(b.inners)))
		for _, entry := range b.inners {
			_ = binary.Write(attr, binary.BigEndian, b.class(entry.inner))
			outer := uint16(0)
			if entry.outer != "" {
				outer = b.class(entry.outer)
			}
			_ = binary.Write(attr, binary.BigEndian, outer)
			simpleName := uint16(0)
			if entry.name != "" {
				simpleName = b.utf8(entry.name)
			}
			_ = binary.Write(attr, binary.BigEndian, simpleName)
			_ = binary.Write(attr, binary.BigEndian, entry.access)
		}
		u2(1)
		body.Write(b.attribute("InnerClasses", attr.Bytes()))
	}

	out := &bytes.Buffer{}
	_ = binary.Write(out, binary.BigEndian, uint32(0xCAFEBABE))
	_ = binary.Write(out, binary.BigEndian, uint16(0))
	_ = binary.Write(out, binary.BigEndian, b.major)
	_ = binary.Write(out, binary.BigEndian, b.count)
	out.Write(b.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

// codeAttribute patches `new` class operands in order with names
func (b *Builder) codeAttribute(code []byte, names []string) []byte {
	code = append([]byte(nil), code...)
	next := 0
	for pc := 0; pc+2 < len(code) && next < len(names); pc++ {
		if code[pc] == 0xbb && code[pc+1] == 0 && code[pc+2] == 0 {
			binary.BigEndian.PutUint16(code[pc+1:], b.class(names[next]))
			next++
			pc += 3
		}
	}
	attr := &bytes.Buffer{}
	_ = binary.Write(attr, binary.BigEndian, uint16(4)) // max_stack
	_ = binary.Write(attr, binary.BigEndian, uint16(8)) // max_locals
	_ = binary.Write(attr, binary.BigEndian, uint32(len(code)))
	attr.Write(code)
	_ = binary.Write(attr, binary.BigEndian, uint16(0)) // exception table
	_ = binary.Write(attr, binary.BigEndian, uint16(0)) // attributes
	return b.attribute("Code", attr.Bytes())
}

func (b *Builder) attribute(name string, data []byte) []byte {
	attr := &bytes.Buffer{}
	_ = binary.Write(attr, binary.BigEndian, b.utf8(name))
	_ = binary.Write(attr, binary.BigEndian, uint32(len(data)))
	attr.Write(data)
	return attr.Bytes()
}

func (b *Builder) utf8(text string) uint16 {
	if idx, ok := b.utf8s[text]; ok {
		return idx
	}
	b.pool.WriteByte(1)
	_ = binary.Write(&b.pool, binary.BigEndian, uint16(len(text)))
	b.pool.WriteString(text)
	idx := b.count
	b.count++
	b.utf8s[text] = idx
	return idx
}

func (b *Builder) class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIndex := b.utf8(name)
	b.pool.WriteByte(7)
	_ = binary.Write(&b.pool, binary.BigEndian, nameIndex)
	idx := b.count
	b.count++
	b.classes[name] = idx
	return idx
}
