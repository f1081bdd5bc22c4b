package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/template"
)

type decoder func([]byte) (map[string]any, error)

var decoders = map[template.FormatKind]decoder{
	template.FormatJSON: decodeJSON,
	template.FormatYAML: decodeYAML,
	template.FormatTOML: decodeTOML,
}

// Decode parses content according to kind. The document must be a mapping at
// the top level.
func Decode(kind template.FormatKind, content []byte) (map[string]any, error) {
	decode, ok := decoders[kind]
	if !ok {
		return nil, invalidDocument(kind, content)
	}
	doc, err := decode(content)
	if err != nil || doc == nil {
		return nil, invalidDocument(kind, content)
	}
	return doc, nil
}

func decodeJSON(content []byte) (map[string]any, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("parser: trailing data after json document")
	}
	return doc, nil
}

func decodeYAML(content []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeTOML(content []byte) (map[string]any, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func invalidDocument(kind template.FormatKind, content []byte) *domainerr.InvalidFormat {
	return &domainerr.InvalidFormat{
		Input:          string(content),
		ExpectedFormat: fmt.Sprintf("%s template document", kind),
	}
}
