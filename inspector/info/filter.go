package info

import (
	"path"
	"strings"
)

// Filter decides if a qualified class name takes part in a run
type Filter interface {
	Accepts(qualifiedName string) bool
}

// FilterFunc adapts a function to Filter
type FilterFunc func(qualifiedName string) bool

func (f FilterFunc) Accepts(qualifiedName string) bool {
	return f(qualifiedName)
}

// Accepts applies filter, nil filter accepts all
func Accepts(filter Filter, qualifiedName string) bool {
	if filter == nil {
		return true
	}
	return filter.Accepts(qualifiedName)
}

// PrefixFilter accepts names within any of the namespaces
type PrefixFilter []string

func (f PrefixFilter) Accepts(qualifiedName string) bool {
	for _, prefix := range f {
		if strings.HasPrefix(qualifiedName, prefix) {
			return true
		}
	}
	return false
}

// PlatformFilter accepts platform API namespaces only
func PlatformFilter() PrefixFilter {
	return PrefixFilter{"java.", "javax.", "jdk.", "sun.", "com.sun.", "org.w3c.", "org.xml.", "org.ietf."}
}

// PatternFilter matches names with path.Match patterns, i.e. com.acme.*
type PatternFilter struct {
	Include []string
	Exclude []string
}

func (f *PatternFilter) Accepts(qualifiedName string) bool {
	if matchAny(f.Exclude, qualifiedName) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	return matchAny(f.Include, qualifiedName)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
		if strings.HasSuffix(pattern, ".**") && strings.HasPrefix(name, strings.TrimSuffix(pattern, "**")) {
			return true
		}
	}
	return false
}

type allOf []Filter

func (f allOf) Accepts(qualifiedName string) bool {
	for _, filter := range f {
		if !Accepts(filter, qualifiedName) {
			return false
		}
	}
	return true
}

// AllOf accepts names accepted by every filter
func AllOf(filters ...Filter) Filter {
	return allOf(filters)
}
