package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/classmodel/inspector/graph"
	"gopkg.in/yaml.v3"
)

// ErrFingerprintMismatch reports a stored model whose content does not match its recorded fingerprint
var ErrFingerprintMismatch = errors.New("model fingerprint mismatch")

const fileMode = 0o644

// Store persists models as YAML documents
type Store struct {
	fs afs.Service
}

// New creates a store
func New() *Store {
	return &Store{fs: afs.New()}
}

// Load loads a model, returns nil model when URL does not exist
func (s *Store) Load(ctx context.Context, URL string) (*graph.Model, error) {
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check model %s: %w", URL, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", URL, err)
	}
	doc := &document{}
	if err = yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", URL, err)
	}
	model, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("failed to build model %s: %w", URL, err)
	}
	if doc.Fingerprint != "" {
		fingerprint, err := model.Fingerprint()
		if err != nil {
			return nil, err
		}
		if fingerprint != doc.Fingerprint {
			return nil, fmt.Errorf("%s: %w: expected %s, but had %s", URL, ErrFingerprintMismatch, doc.Fingerprint, fingerprint)
		}
	}
	return model, nil
}

// Save writes a model with its fingerprint
func (s *Store) Save(ctx context.Context, model *graph.Model, URL string) error {
	data, err := Marshal(model)
	if err != nil {
		return err
	}
	if err = s.fs.Upload(ctx, URL, fileMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save model %s: %w", URL, err)
	}
	return nil
}

// Marshal encodes a model as YAML
func Marshal(model *graph.Model) ([]byte, error) {
	fingerprint, err := model.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint model %s: %w", model.Name, err)
	}
	buffer := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err = encoder.Encode(newDocument(model, fingerprint)); err != nil {
		return nil, fmt.Errorf("failed to encode model %s: %w", model.Name, err)
	}
	if err = encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Load loads a model with a default store
func Load(ctx context.Context, URL string) (*graph.Model, error) {
	return New().Load(ctx, URL)
}

// Save saves a model with a default store
func Save(ctx context.Context, model *graph.Model, URL string) error {
	return New().Save(ctx, model, URL)
}
