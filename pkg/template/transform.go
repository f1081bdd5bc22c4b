package template

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Transforms maps names used in template bodies to transform functions.
type Transforms map[string]TransformFunc

// DefaultTransforms returns the built-in registry.
func DefaultTransforms() Transforms {
	return Transforms{
		"lower":  stringTransform(strings.ToLower),
		"upper":  stringTransform(strings.ToUpper),
		"trim":   stringTransform(strings.TrimSpace),
		"string": toString,
		"slug":   stringTransform(slugify),
		"first":  first,
	}
}

// Lookup returns the transform registered under name.
func (t Transforms) Lookup(name string) (TransformFunc, bool) {
	fn, ok := t[name]
	return fn, ok && fn != nil
}

// Names returns the registered names in sorted order.
func (t Transforms) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of t extended with extra. Entries in extra win.
func (t Transforms) With(extra Transforms) Transforms {
	out := make(Transforms, len(t)+len(extra))
	for name, fn := range t {
		out[name] = fn
	}
	for name, fn := range extra {
		out[name] = fn
	}
	return out
}

// stringTransform applies fn to string values and passes anything else
// through untouched.
func stringTransform(fn func(string) string) TransformFunc {
	return func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return fn(s)
	}
}

func toString(v any) any {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func first(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
