package java

import (
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/inspector/repository"
)

// Inspector reads JVM class records and builds model types out of them
type Inspector struct {
	model   *graph.Model
	config  *info.Config
	filter  info.Filter
	scanner *repository.Scanner
	onScan  ScanListener
}

// ScanListener is notified once a location is fully scanned
type ScanListener func(location string, completed, total int)

// Option represents inspector option
type Option func(*Inspector)

// WithFilter overrides configuration derived class filter
func WithFilter(filter info.Filter) Option {
	return func(i *Inspector) {
		i.filter = filter
	}
}

// WithScanner sets class entry scanner
func WithScanner(scanner *repository.Scanner) Option {
	return func(i *Inspector) {
		i.scanner = scanner
	}
}

// WithScanListener sets per location progress listener
func WithScanListener(listener ScanListener) Option {
	return func(i *Inspector) {
		i.onScan = listener
	}
}

// NewInspector creates a new Java bytecode Inspector with the provided configuration
func NewInspector(model *graph.Model, config *info.Config, options ...Option) *Inspector {
	if config == nil {
		config = info.DefaultConfig()
	}
	ret := &Inspector{
		model:  model,
		config: config,
		filter: config.Filter(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.scanner == nil {
		ret.scanner = repository.NewScanner()
	}
	return ret
}
