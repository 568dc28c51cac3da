package classfile

// AccessFlags represents classfile access_flags
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

// Has returns true if all supplied flags are set
func (a AccessFlags) Has(flags AccessFlags) bool {
	return a&flags == flags
}

func (a AccessFlags) IsPublic() bool    { return a.Has(AccPublic) }
func (a AccessFlags) IsPrivate() bool   { return a.Has(AccPrivate) }
func (a AccessFlags) IsProtected() bool { return a.Has(AccProtected) }
func (a AccessFlags) IsStatic() bool    { return a.Has(AccStatic) }
func (a AccessFlags) IsFinal() bool     { return a.Has(AccFinal) }
func (a AccessFlags) IsAbstract() bool  { return a.Has(AccAbstract) }
func (a AccessFlags) IsSynthetic() bool { return a.Has(AccSynthetic) }
func (a AccessFlags) IsInterface() bool { return a.Has(AccInterface) }

// IsPackage returns true if no visibility flag is set
func (a AccessFlags) IsPackage() bool {
	return a&(AccPublic|AccPrivate|AccProtected) == 0
}
