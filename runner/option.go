package runner

import (
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/store"
)

// Option represents runner option
type Option func(*Runner)

// WithProgress sets progress channel, the channel has to be drained while a run is in progress
func WithProgress(progress chan<- Progress) Option {
	return func(r *Runner) {
		r.progress = progress
	}
}

// WithFilter overrides configuration derived class filter
func WithFilter(filter info.Filter) Option {
	return func(r *Runner) {
		r.filter = filter
		r.hasFilter = true
	}
}

// WithStore sets model store
func WithStore(aStore *store.Store) Option {
	return func(r *Runner) {
		r.store = aStore
	}
}

// WithGenerator sets generator name used in the model comment
func WithGenerator(name string) Option {
	return func(r *Runner) {
		r.generator = name
	}
}
