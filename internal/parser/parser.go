// Package parser turns template file content into template.Template values.
//
// A template document is a mapping with three optional top-level fields:
//
//	format       content kind, defaults to the kind of the file extension
//	description  free text, markup is stripped
//	mappings     list of {source, target, transform} entries
package parser

import (
	"fmt"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/template"
)

const (
	fieldFormat      = "format"
	fieldDescription = "description"
	fieldMappings    = "mappings"
)

// Parser builds templates from raw content.
type Parser struct {
	transforms template.Transforms
}

// New returns a Parser resolving transform names against transforms. A nil
// registry means the defaults.
func New(transforms template.Transforms) *Parser {
	if transforms == nil {
		transforms = template.DefaultTransforms()
	}
	return &Parser{transforms: transforms}
}

// Parse decodes content by the path's classification and assembles the
// template. Errors are domain errors; stage failures are wrapped in
// ProcessingStageError.
func (p *Parser) Parse(path template.Path, content []byte) (*template.Template, error) {
	doc, err := Decode(path.Format().Kind, content)
	if err != nil {
		return nil, err
	}

	id, err := template.NewID(path.String())
	if err != nil {
		return nil, stageError(template.StageTemplateCreation, err)
	}

	kind, err := stringField(doc, fieldFormat, string(path.Format().Kind))
	if err != nil {
		return nil, stageError(template.StageTemplateCreation, err)
	}
	format, err := template.NewFormat(kind, string(content))
	if err != nil {
		return nil, stageError(template.StageTemplateCreation, err)
	}

	description, err := stringField(doc, fieldDescription, "")
	if err != nil {
		return nil, stageError(template.StageTemplateCreation, err)
	}

	rules, err := p.rules(doc[fieldMappings])
	if err != nil {
		return nil, stageError(template.StageMappingExtraction, err)
	}

	tpl, err := template.New(id, format, rules, sanitizeDescription(description))
	if err != nil {
		return nil, stageError(template.StageTemplateCreation, err)
	}
	return tpl, nil
}

func (p *Parser) rules(raw any) ([]template.MappingRule, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, &domainerr.InvalidFormat{
			Input:          fmt.Sprintf("%T", raw),
			ExpectedFormat: "list of mapping entries",
		}
	}

	rules := make([]template.MappingRule, 0, len(entries))
	for i, entry := range entries {
		rule, err := p.rule(entry)
		if err != nil {
			return nil, stageError(fmt.Sprintf("mappings[%d]", i), err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (p *Parser) rule(entry any) (template.MappingRule, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return template.MappingRule{}, &domainerr.InvalidFormat{
			Input:          fmt.Sprintf("%v", entry),
			ExpectedFormat: "mapping entry with source and target",
		}
	}

	source, err := stringField(fields, "source", "")
	if err != nil {
		return template.MappingRule{}, err
	}
	target, err := stringField(fields, "target", "")
	if err != nil {
		return template.MappingRule{}, err
	}
	name, err := stringField(fields, "transform", "")
	if err != nil {
		return template.MappingRule{}, err
	}

	var opts []template.RuleOption
	if name != "" {
		fn, ok := p.transforms.Lookup(name)
		if !ok {
			return template.MappingRule{}, &domainerr.InvalidFormat{
				Input:          name,
				ExpectedFormat: fmt.Sprintf("transform name (one of %v)", p.transforms.Names()),
			}
		}
		opts = append(opts, template.WithNamedTransform(name, fn))
	}
	return template.NewMappingRule(source, target, opts...)
}

// stringField reads an optional string. Absent or null yields fallback; any
// other non-string value is rejected.
func stringField(doc map[string]any, key, fallback string) (string, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &domainerr.InvalidFormat{
			Input:          fmt.Sprintf("%s=%v", key, raw),
			ExpectedFormat: fmt.Sprintf("string %s field", key),
		}
	}
	return s, nil
}

func stageError(stage string, err error) error {
	de, ok := domainerr.As(err)
	if !ok {
		de = &domainerr.InvalidResponse{Service: "parser", Response: err.Error()}
	}
	return domainerr.Stage(stage, de)
}
