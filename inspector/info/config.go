package info

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config represents run configuration
type Config struct {
	Name                         string   `yaml:"name,omitempty"`
	Sources                      []string `yaml:"sources,omitempty"`
	Classpath                    []string `yaml:"classpath,omitempty"`
	Output                       string   `yaml:"output,omitempty"`
	Include                      []string `yaml:"include,omitempty"`
	Exclude                      []string `yaml:"exclude,omitempty"`
	PlatformOnly                 bool     `yaml:"platformOnly,omitempty"`
	IncludeMembers               bool     `yaml:"includeMembers"`
	IncludeInstructionReferences bool     `yaml:"includeInstructionReferences"`
	DependenciesOnly             bool     `yaml:"dependenciesOnly"`
	UpdateExistingModel          bool     `yaml:"updateExistingModel"`
	IncludeGeneratorComment      bool     `yaml:"includeGeneratorComment"`
	Concurrency                  int      `yaml:"concurrency,omitempty"`
}

// DefaultConfig returns default run configuration
func DefaultConfig() *Config {
	return &Config{
		IncludeMembers:          true,
		IncludeGeneratorComment: true,
		Concurrency:             4,
	}
}

// Filter returns the class name filter derived from configuration, nil accepts all
func (c *Config) Filter() Filter {
	var filters []Filter
	if c.PlatformOnly {
		filters = append(filters, PlatformFilter())
	}
	if len(c.Include) > 0 || len(c.Exclude) > 0 {
		filters = append(filters, &PatternFilter{Include: c.Include, Exclude: c.Exclude})
	}
	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	}
	return AllOf(filters...)
}

// LoadConfig loads YAML configuration on top of the defaults
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	return ret, nil
}
