package block

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidOnly is returned for an only-filter value that names no option.
var ErrInvalidOnly = errors.New("invalid value for only parameter")

// onlyOptions maps each accepted only-filter value to the block names it admits.
var onlyOptions = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"body", regexp.MustCompile(`^body:`)},
	{"body:json", regexp.MustCompile(`^body:json$`)},
	{"json", regexp.MustCompile(`json$`)},
	{"body:graphql", regexp.MustCompile(`^body:graphql$`)},
	{"graphql", regexp.MustCompile(`.+graphql`)},
	{"body:graphql:vars", regexp.MustCompile(`^body:graphql:vars$`)},
	{"script", regexp.MustCompile(`^script:`)},
	{"script:pre-request", regexp.MustCompile(`^script:pre-request$`)},
	{"pre-request", regexp.MustCompile(`.+:pre-request$`)},
	{"script:post-response", regexp.MustCompile(`^script:post-response$`)},
	{"post-response", regexp.MustCompile(`.+:post-response$`)},
	{"tests", regexp.MustCompile(`^tests$`)},
}

// OnlyOptions lists the accepted only-filter values in help order.
func OnlyOptions() []string {
	names := make([]string, len(onlyOptions))
	for i, o := range onlyOptions {
		names[i] = o.name
	}
	return names
}

// Filter restricts processing to a subset of Kinds. A nil *Filter admits all.
type Filter struct {
	name    string
	pattern *regexp.Regexp
}

// ParseOnly resolves an only-filter value. The empty string means no filter
// and yields a nil Filter.
func ParseOnly(name string) (*Filter, error) {
	if name == "" {
		return nil, nil
	}
	for _, o := range onlyOptions {
		if o.name == name {
			return &Filter{name: o.name, pattern: o.pattern}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidOnly, name)
}

// Name returns the option the filter was parsed from.
func (f *Filter) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Admits reports whether k is processed under f.
func (f *Filter) Admits(k Kind) bool {
	if f == nil {
		return true
	}
	return f.pattern.MatchString(k.Name)
}

// Select returns the kinds admitted by f, in processing order.
func (f *Filter) Select() []Kind {
	out := make([]Kind, 0, len(Kinds))
	for _, k := range Kinds {
		if f.Admits(k) {
			out = append(out, k)
		}
	}
	return out
}
