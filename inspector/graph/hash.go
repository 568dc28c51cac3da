package graph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns highwayhash-64 of data
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Fingerprint returns a content hash of all types and members, the generator comment is excluded
func (m *Model) Fingerprint() (string, error) {
	types := m.Types()
	sort.Slice(types, func(i, j int) bool {
		return types[i].QualifiedName < types[j].QualifiedName
	})
	builder := &strings.Builder{}
	builder.WriteString(m.Name)
	builder.WriteByte('\n')
	for _, t := range types {
		builder.WriteString(t.QualifiedName)
		builder.WriteByte('|')
		builder.WriteString(t.Kind.String())
		builder.WriteByte('|')
		builder.WriteString(t.Visibility.String())
		builder.WriteByte('|')
		builder.WriteString(strconv.FormatBool(t.IsAbstract))
		builder.WriteByte('|')
		builder.WriteString(strconv.FormatBool(t.IsLeaf))
		builder.WriteByte('|')
		builder.WriteString(strings.Join(t.Generalizations, ","))
		builder.WriteByte('|')
		builder.WriteString(strings.Join(t.Realizations, ","))
		writeAnnotation(builder, &t.Annotated)
		builder.WriteByte('\n')
		for _, p := range t.Properties {
			builder.WriteString("  p:")
			builder.WriteString(p.Name)
			builder.WriteByte(':')
			builder.WriteString(p.Type)
			builder.WriteByte('|')
			builder.WriteString(p.Visibility.String())
			builder.WriteString(modifiers(p.IsStatic, p.IsReadOnly, p.IsLeaf, false))
			writeAnnotation(builder, &p.Annotated)
			builder.WriteByte('\n')
		}
		for _, o := range t.Operations {
			builder.WriteString("  o:")
			builder.WriteString(o.Signature())
			builder.WriteByte(':')
			builder.WriteString(o.Return)
			builder.WriteByte('|')
			builder.WriteString(o.Visibility.String())
			builder.WriteString(modifiers(o.IsStatic, false, o.IsLeaf, o.IsAbstract))
			builder.WriteString(strings.Join(o.Exceptions, ","))
			builder.WriteByte('|')
			builder.WriteString(strings.Join(o.References, ","))
			writeAnnotation(builder, &o.Annotated)
			builder.WriteByte('\n')
		}
	}
	sum, err := Hash([]byte(builder.String()))
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(sum, 16), nil
}

func modifiers(static, readOnly, leaf, abstract bool) string {
	flags := []byte("----|")
	if static {
		flags[0] = 's'
	}
	if readOnly {
		flags[1] = 'r'
	}
	if leaf {
		flags[2] = 'l'
	}
	if abstract {
		flags[3] = 'a'
	}
	return "|" + string(flags)
}

func writeAnnotation(builder *strings.Builder, annotated *Annotated) {
	if annotated.IsInferred() {
		builder.WriteString("|inferred")
	}
	if annotated.Annotation == nil || len(annotated.Annotation.Metadata) == 0 {
		return
	}
	keys := make([]string, 0, len(annotated.Annotation.Metadata))
	for k := range annotated.Annotation.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		builder.WriteByte('|')
		builder.WriteString(k)
		builder.WriteByte('=')
		builder.WriteString(annotated.Annotation.Metadata[k])
	}
}
