package template

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
)

// Classification is the file-level format of a template path.
type Classification struct {
	Kind       FormatKind
	Extensions []string
}

// supportedFormats is the single source of truth for recognised template
// files. Supporting a new format means adding a row here.
var supportedFormats = []Classification{
	{Kind: FormatJSON, Extensions: []string{".json"}},
	{Kind: FormatYAML, Extensions: []string{".yaml", ".yml"}},
	{Kind: FormatTOML, Extensions: []string{".toml"}},
}

// SupportedFormats returns a copy of the classification table.
func SupportedFormats() []Classification {
	out := make([]Classification, len(supportedFormats))
	for i, c := range supportedFormats {
		out[i] = Classification{Kind: c.Kind, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// SupportedExtensions flattens the table in order.
func SupportedExtensions() []string {
	var out []string
	for _, c := range supportedFormats {
		out = append(out, c.Extensions...)
	}
	return out
}

// DetectFormat classifies path by suffix. It never fails; ok is false when
// nothing matches.
func DetectFormat(path string) (Classification, bool) {
	for _, c := range supportedFormats {
		for _, ext := range c.Extensions {
			if strings.HasSuffix(path, ext) {
				return Classification{Kind: c.Kind, Extensions: append([]string(nil), c.Extensions...)}, true
			}
		}
	}
	return Classification{}, false
}

// ValidateFormat is the strict form of DetectFormat.
func ValidateFormat(path string) (Classification, error) {
	c, ok := DetectFormat(path)
	if !ok {
		return Classification{}, &domainerr.FileExtensionMismatch{
			Path:     path,
			Expected: SupportedExtensions(),
		}
	}
	return c, nil
}

// Path is a validated template location. The zero value is not valid; use
// NewPath.
type Path struct {
	value string
	class Classification
}

// NewPath validates raw. It accepts any value so that callers decoding
// loosely typed input (CLI args, config maps) get a domain error rather than
// a type assertion panic.
//
// Leading and trailing whitespace is trimmed before the extension check, so
// "a.json " is accepted as "a.json". Whitespace inside the path is kept.
func NewPath(raw any) (Path, error) {
	s, ok := raw.(string)
	if !ok {
		return Path{}, &domainerr.InvalidFormat{
			Input:          describe(raw),
			ExpectedFormat: "string path",
		}
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Path{}, &domainerr.EmptyInput{Field: "path"}
	}
	class, err := ValidateFormat(trimmed)
	if err != nil {
		return Path{}, err
	}
	return Path{value: filepath.Clean(trimmed), class: class}, nil
}

// String returns the cleaned path. It is also the cache key.
func (p Path) String() string { return p.value }

// Format returns the file-level classification.
func (p Path) Format() Classification { return p.class }

// IsZero reports whether p was built without NewPath.
func (p Path) IsZero() bool { return p.value == "" }
