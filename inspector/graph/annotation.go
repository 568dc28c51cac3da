package graph

const (
	// MetaBytecodeVersion holds classfile major.minor version
	MetaBytecodeVersion = "bytecode.version"
	// MetaLocation holds the source entry the element was decoded from
	MetaLocation = "bytecode.location"
)

// Annotation represents element metadata bag
type Annotation struct {
	Inferred *bool            `yaml:"inferred,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

func (a *Annotation) isEmpty() bool {
	return a.Inferred == nil && len(a.Metadata) == 0
}

// Annotated is embedded by every model element
type Annotated struct {
	Annotation *Annotation `yaml:"annotation,omitempty"`
}

// IsInferred returns true if element was tagged as inferred; absence of the tag means declared
func (a *Annotated) IsInferred() bool {
	return a.Annotation != nil && a.Annotation.Inferred != nil && *a.Annotation.Inferred
}

// SetInferred tags element, declared elements carry no inferred key
func (a *Annotated) SetInferred(inferred bool) {
	if !inferred {
		if a.Annotation == nil || a.Annotation.Inferred == nil {
			return
		}
		a.Annotation.Inferred = nil
		a.compact()
		return
	}
	if a.IsInferred() {
		return
	}
	if a.Annotation == nil {
		a.Annotation = &Annotation{}
	}
	value := true
	a.Annotation.Inferred = &value
}

// Metadata returns metadata value
func (a *Annotated) Metadata(key string) (string, bool) {
	if a.Annotation == nil {
		return "", false
	}
	value, ok := a.Annotation.Metadata[key]
	return value, ok
}

// SetMetadata sets metadata value
func (a *Annotated) SetMetadata(key, value string) {
	if a.Annotation == nil {
		a.Annotation = &Annotation{}
	}
	if a.Annotation.Metadata == nil {
		a.Annotation.Metadata = make(map[string]string)
	}
	a.Annotation.Metadata[key] = value
}

// RemoveMetadata removes metadata key, the bag is dropped once empty
func (a *Annotated) RemoveMetadata(key string) {
	if a.Annotation == nil {
		return
	}
	delete(a.Annotation.Metadata, key)
	if len(a.Annotation.Metadata) == 0 {
		a.Annotation.Metadata = nil
	}
	a.compact()
}

func (a *Annotated) compact() {
	if a.Annotation != nil && a.Annotation.isEmpty() {
		a.Annotation = nil
	}
}

// CloneAnnotation returns a deep copy of the annotation bag
func (a *Annotated) CloneAnnotation() *Annotation {
	if a.Annotation == nil {
		return nil
	}
	ret := &Annotation{}
	if a.Annotation.Inferred != nil {
		value := *a.Annotation.Inferred
		ret.Inferred = &value
	}
	if len(a.Annotation.Metadata) > 0 {
		ret.Metadata = make(map[string]string, len(a.Annotation.Metadata))
		for k, v := range a.Annotation.Metadata {
			ret.Metadata[k] = v
		}
	}
	return ret
}
