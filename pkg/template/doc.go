// Package template holds the template domain: path and format validation,
// the Format, MappingRule and ProcessingOptions value objects, the Template
// aggregate and the Repository contract.
//
// Every constructor is the only way to obtain a valid value of its type and
// returns a domainerr.Error on failure. Values are immutable once built.
//
//	upper, _ := template.DefaultTransforms().Lookup("upper")
//	rule, err := template.NewMappingRule("author.name", "meta.author",
//		template.WithNamedTransform("upper", upper))
//	value, ok := rule.Apply(doc)
package template
