package classfiletest

import (
	"archive/zip"
	"os"
	"path/filepath"
)

// Path returns class entry path, i.e. com/acme/A.class
func (b *Builder) Path() string {
	return b.name + ".class"
}

// WriteDir writes class files under dir following package layout
func WriteDir(dir string, builders ...*Builder) error {
	for _, builder := range builders {
		filename := filepath.Join(dir, filepath.FromSlash(builder.Path()))
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filename, builder.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchive writes class files into a zip archive
func WriteArchive(filename string, builders ...*Builder) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	writer := zip.NewWriter(file)
	for _, builder := range builders {
		entry, err := writer.Create(builder.Path())
		if err != nil {
			_ = file.Close()
			return err
		}
		if _, err = entry.Write(builder.Bytes()); err != nil {
			_ = file.Close()
			return err
		}
	}
	if err = writer.Close(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// MutualPair returns classes A and B in the root package referring to each other nested classes:
// public A has field b of type B$BB, package private B has field a of type A$AA.
func MutualPair() []*Builder {
	return []*Builder{
		New("A").
			Field(AccPublic, "b", "LB$BB;").
			Method(AccPublic, "<init>", "()V").
			Inner("A$AA", "A", "AA", AccPublic|AccStatic),
		New("A$AA").
			Method(AccPublic, "<init>", "()V").
			Inner("A$AA", "A", "AA", AccPublic|AccStatic),
		New("B").
			Access(AccSuper).
			Field(0, "a", "LA$AA;").
			Inner("B$BB", "B", "BB", AccStatic),
		New("B$BB").
			Access(AccSuper).
			Inner("B$BB", "B", "BB", AccStatic),
	}
}
