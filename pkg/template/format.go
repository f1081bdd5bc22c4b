package template

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
)

// FormatKind names the content format of a template body.
type FormatKind string

const (
	FormatJSON       FormatKind = "json"
	FormatYAML       FormatKind = "yaml"
	FormatTOML       FormatKind = "toml"
	FormatHandlebars FormatKind = "handlebars"
	FormatCustom     FormatKind = "custom"
)

var knownKinds = []FormatKind{FormatJSON, FormatYAML, FormatTOML, FormatHandlebars, FormatCustom}

// FormatKinds lists the recognised content kinds.
func FormatKinds() []FormatKind {
	return append([]FormatKind(nil), knownKinds...)
}

// Format pairs a content kind with the raw template body.
type Format struct {
	kind FormatKind
	body string
}

// NewFormat validates kind and body. The body check runs first.
func NewFormat(kind, body string) (Format, error) {
	if strings.TrimSpace(body) == "" {
		return Format{}, &domainerr.EmptyInput{Field: "template"}
	}
	for _, k := range knownKinds {
		if string(k) == kind {
			return Format{kind: k, body: body}, nil
		}
	}
	return Format{}, &domainerr.InvalidFormat{
		Input:          kind,
		ExpectedFormat: fmt.Sprintf("one of %s", joinKinds(knownKinds)),
	}
}

func (f Format) Kind() FormatKind { return f.kind }

// Template returns the body exactly as it was supplied.
func (f Format) Template() string { return f.body }

func (f Format) IsZero() bool { return f.kind == "" }

func joinKinds(kinds []FormatKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func describe(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
