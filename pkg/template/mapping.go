package template

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
)

// TransformFunc converts a resolved source value.
type TransformFunc func(any) any

// MappingRule copies the value at a source dot-path to a target dot-path.
type MappingRule struct {
	source        string
	target        string
	transform     TransformFunc
	transformName string
}

// RuleOption customises a MappingRule.
type RuleOption func(*MappingRule)

// WithTransform sets an anonymous transform.
func WithTransform(fn TransformFunc) RuleOption {
	return func(r *MappingRule) {
		r.transform = fn
	}
}

// WithNamedTransform sets a transform and records its registry name.
func WithNamedTransform(name string, fn TransformFunc) RuleOption {
	return func(r *MappingRule) {
		r.transform = fn
		r.transformName = name
	}
}

// NewMappingRule validates both paths. Nothing is defaulted: a rule whose
// source is absent from the input produces no value.
func NewMappingRule(source, target string, opts ...RuleOption) (MappingRule, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" {
		return MappingRule{}, &domainerr.EmptyInput{Field: "source"}
	}
	if target == "" {
		return MappingRule{}, &domainerr.EmptyInput{Field: "target"}
	}
	rule := MappingRule{source: source, target: target}
	for _, opt := range opts {
		if opt != nil {
			opt(&rule)
		}
	}
	return rule, nil
}

func (r MappingRule) Source() string { return r.source }
func (r MappingRule) Target() string { return r.target }

// TransformName is empty for rules without a transform or with an
// anonymous one.
func (r MappingRule) TransformName() string { return r.transformName }

// HasTransform reports whether a transform is attached.
func (r MappingRule) HasTransform() bool { return r.transform != nil }

// Apply resolves the source path against data. Traversal stops with no value
// at nil, scalars, slices and arrays, and at missing keys. The transform only
// runs on a resolved value.
func (r MappingRule) Apply(data any) (any, bool) {
	value, ok := resolve(data, strings.Split(r.source, "."))
	if !ok {
		return nil, false
	}
	if r.transform != nil {
		return r.transform(value), true
	}
	return value, true
}

func resolve(current any, segments []string) (any, bool) {
	for _, segment := range segments {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func child(current any, key string) (any, bool) {
	switch m := current.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[key]
		return v, ok
	}

	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}
