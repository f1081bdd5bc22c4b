package template

import (
	"strings"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
)

// ID identifies a template. It is derived from the template path.
type ID string

// NewID rejects blank identifiers.
func NewID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &domainerr.EmptyInput{Field: "id"}
	}
	return ID(trimmed), nil
}

func (id ID) String() string { return string(id) }

// Template is the loaded, validated aggregate. Instances are shared through
// the repository cache and must be treated as read-only.
type Template struct {
	id          ID
	format      Format
	rules       []MappingRule
	description string
}

// New assembles a template. It fails with MissingRequiredField naming each
// of id and format that is unset.
func New(id ID, format Format, rules []MappingRule, description string) (*Template, error) {
	var missing []string
	if id == "" {
		missing = append(missing, "id")
	}
	if format.IsZero() {
		missing = append(missing, "format")
	}
	if len(missing) > 0 {
		return nil, &domainerr.MissingRequiredField{Fields: missing}
	}
	return &Template{
		id:          id,
		format:      format,
		rules:       append([]MappingRule(nil), rules...),
		description: description,
	}, nil
}

func (t *Template) ID() ID              { return t.id }
func (t *Template) Format() Format      { return t.format }
func (t *Template) Description() string { return t.description }

// MappingRules returns a copy of the rules in declaration order.
func (t *Template) MappingRules() []MappingRule {
	return append([]MappingRule(nil), t.rules...)
}

// Map applies every rule to data and builds a fresh output document. Rules
// whose source is absent are skipped. When two rules share a target the later
// one wins. Intermediate objects along a target path are created as needed
// and replace any non-object value found there.
func (t *Template) Map(data any) map[string]any {
	out := map[string]any{}
	for _, rule := range t.rules {
		value, ok := rule.Apply(data)
		if !ok {
			continue
		}
		assign(out, strings.Split(rule.Target(), "."), value)
	}
	return out
}

func assign(dst map[string]any, segments []string, value any) {
	current := dst
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}
