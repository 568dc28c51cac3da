package repository

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

const classExt = ".class"

var archiveExts = []string{".jar", ".zip", ".war", ".ear"}

// Entry represents a class file entry
type Entry struct {
	Location string // scanned location: archive, directory or class file
	Path     string // entry path within location, nested archives are separated with !/, empty for a class file location
	Data     []byte
}

// URL returns entry address, i.e. lib/app.jar!/com/acme/A.class
func (e *Entry) URL() string {
	switch {
	case e.Path == "":
		return e.Location
	case IsArchive(e.Location):
		return e.Location + "!/" + e.Path
	}
	return url.Join(e.Location, e.Path)
}

// Visit is called for every class entry, returning an error stops the scan
type Visit func(entry *Entry) error

// Scanner enumerates class file entries of directories and archives
type Scanner struct {
	fs afs.Service
}

// NewScanner creates a scanner
func NewScanner() *Scanner {
	return &Scanner{fs: afs.New()}
}

// IsArchive returns true for jar, zip, war and ear names
func IsArchive(name string) bool {
	return HasSuffixes(strings.ToLower(name), archiveExts)
}

// HasSuffixes returns true if name ends with any of the suffixes
func HasSuffixes(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// IsClassEntry returns true for class files describing types
func IsClassEntry(name string) bool {
	if !strings.HasSuffix(name, classExt) {
		return false
	}
	base := path.Base(name)
	return base != "module-info.class" && base != "package-info.class"
}

// Scan visits class entries of location in a deterministic order
func (s *Scanner) Scan(ctx context.Context, location string, visit Visit) error {
	if IsArchive(location) {
		data, err := s.fs.DownloadWithURL(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to read archive %s: %w", location, err)
		}
		return s.scanArchive(location, "", data, visit)
	}
	object, err := s.fs.Object(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", location, err)
	}
	if !object.IsDir() {
		if !IsClassEntry(location) {
			return fmt.Errorf("unsupported class source: %s", location)
		}
		data, err := s.fs.DownloadWithURL(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", location, err)
		}
		return visit(&Entry{Location: location, Data: data})
	}
	return s.scanDirectory(ctx, location, visit)
}

func (s *Scanner) scanDirectory(ctx context.Context, location string, visit Visit) error {
	var entries []*Entry
	var archives []string
	err := s.fs.Walk(ctx, location, func(ctx context.Context, baseURL string, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		relative := path.Join(parent, info.Name())
		if IsArchive(info.Name()) {
			archives = append(archives, url.Join(baseURL, relative))
			return true, nil
		}
		if !IsClassEntry(info.Name()) || reader == nil {
			return true, nil
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", relative, err)
		}
		entries = append(entries, &Entry{Location: location, Path: relative, Data: data})
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", location, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	for _, entry := range entries {
		if err = visit(entry); err != nil {
			return err
		}
	}
	sort.Strings(archives)
	for _, archive := range archives {
		if err = s.Scan(ctx, archive, visit); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanArchive(location, prefix string, data []byte, visit Visit) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open archive %s%s: %w", location, prefix, err)
	}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		isClass := IsClassEntry(file.Name)
		isArchive := IsArchive(file.Name)
		if !isClass && !isArchive {
			continue
		}
		content, err := readZipFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s!/%s%s: %w", location, prefix, file.Name, err)
		}
		if isArchive {
			if err = s.scanArchive(location, prefix+file.Name+"!/", content, visit); err != nil {
				return err
			}
			continue
		}
		if err = visit(&Entry{Location: location, Path: prefix + file.Name, Data: content}); err != nil {
			return err
		}
	}
	return nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
