package template_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/template"
)

func TestNew_ReportsOnlyMissingFields(t *testing.T) {
	format := mustFormat(t, "json", "{}")

	tests := []struct {
		name   string
		id     template.ID
		format template.Format
		want   []string
	}{
		{"both missing", "", template.Format{}, []string{"id", "format"}},
		{"id missing", "", format, []string{"id"}},
		{"format missing", "a.json", template.Format{}, []string{"format"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := template.New(tt.id, tt.format, nil, "")
			var missing *domainerr.MissingRequiredField
			if !asKind(err, &missing) {
				t.Fatalf("expected MissingRequiredField, got %v", err)
			}
			if diff := cmp.Diff(tt.want, missing.Fields); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := template.NewID("  "); domainerr.KindOf(err) != domainerr.KindEmptyInput {
		t.Fatalf("blank id should fail EmptyInput, got %v", err)
	}
}

func TestTemplate_MappingRulesAreCopied(t *testing.T) {
	rules := []template.MappingRule{mustRule(t, "a", "b")}
	tpl, err := template.New("a.json", mustFormat(t, "json", "{}"), rules, "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules[0] = mustRule(t, "changed", "changed")
	got := tpl.MappingRules()
	if got[0].Source() != "a" {
		t.Fatalf("template must not alias the caller slice")
	}
	got[0] = mustRule(t, "other", "other")
	if tpl.MappingRules()[0].Source() != "a" {
		t.Fatalf("accessor must return a copy")
	}
	if tpl.ID() != "a.json" || tpl.Description() != "desc" || tpl.Format().Kind() != template.FormatJSON {
		t.Fatalf("accessor mismatch")
	}
}

func TestTemplate_Map(t *testing.T) {
	upper, _ := template.DefaultTransforms().Lookup("upper")
	tpl, err := template.New("post.yaml", mustFormat(t, "yaml", "mappings: []"), []template.MappingRule{
		mustRule(t, "title", "meta.title"),
		mustRule(t, "author.name", "meta.author", template.WithNamedTransform("upper", upper)),
		mustRule(t, "missing.field", "meta.missing"),
		mustRule(t, "tags", "tags"),
		mustRule(t, "draft", "meta.title"),
		mustRule(t, "title", "meta.title.deep"),
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tpl.Map(map[string]any{
		"title":  "Hello",
		"draft":  true,
		"tags":   []any{"go"},
		"author": map[string]any{"name": "ada"},
	})
	want := map[string]any{
		"meta": map[string]any{
			"title":  map[string]any{"deep": "Hello"},
			"author": "ADA",
		},
		"tags": []any{"go"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func mustFormat(t *testing.T, kind, body string) template.Format {
	t.Helper()
	f, err := template.NewFormat(kind, body)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return f
}

func mustRule(t *testing.T, source, target string, opts ...template.RuleOption) template.MappingRule {
	t.Helper()
	r, err := template.NewMappingRule(source, target, opts...)
	if err != nil {
		t.Fatalf("rule: %v", err)
	}
	return r
}
