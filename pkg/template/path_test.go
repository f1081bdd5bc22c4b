package template_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/template"
)

func TestNewPath_AcceptsSupportedExtensions(t *testing.T) {
	tests := []struct {
		raw  string
		want template.FormatKind
		path string
	}{
		{"a.json", template.FormatJSON, "a.json"},
		{"dir/b.yaml", template.FormatYAML, "dir/b.yaml"},
		{"c.yml", template.FormatYAML, "c.yml"},
		{"  ./nested/../d.toml  ", template.FormatTOML, "d.toml"},
		{".json", template.FormatJSON, ".json"},
		{"a.json ", template.FormatJSON, "a.json"},
		{"\tmy post.yaml\n", template.FormatYAML, "my post.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := template.NewPath(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Format().Kind != tt.want {
				t.Fatalf("kind mismatch: want %s got %s", tt.want, p.Format().Kind)
			}
			if p.String() != tt.path {
				t.Fatalf("path mismatch: want %q got %q", tt.path, p.String())
			}
		})
	}
}

func TestNewPath_RejectsUnsupportedExtensions(t *testing.T) {
	for _, raw := range []string{"a.txt", "a.json.bak", "a.JSON", "json", "a.yaml/"} {
		t.Run(raw, func(t *testing.T) {
			_, err := template.NewPath(raw)
			var mismatch *domainerr.FileExtensionMismatch
			if !asKind(err, &mismatch) {
				t.Fatalf("expected FileExtensionMismatch, got %v", err)
			}
			if diff := cmp.Diff(template.SupportedExtensions(), mismatch.Expected); diff != "" {
				t.Fatalf("expected extensions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewPath_RejectsBlankAndNonString(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		_, err := template.NewPath(raw)
		if domainerr.KindOf(err) != domainerr.KindEmptyInput {
			t.Fatalf("%q: expected EmptyInput, got %v", raw, err)
		}
	}

	for _, raw := range []any{42, nil, []string{"a.json"}} {
		_, err := template.NewPath(raw)
		if domainerr.KindOf(err) != domainerr.KindInvalidFormat {
			t.Fatalf("%v: expected InvalidFormat, got %v", raw, err)
		}
	}
}

func TestDetectFormat_IsTotal(t *testing.T) {
	if _, ok := template.DetectFormat("notes.md"); ok {
		t.Fatalf("markdown should not be classified")
	}
	c, ok := template.DetectFormat("x.yml")
	if !ok || c.Kind != template.FormatYAML {
		t.Fatalf("unexpected classification: %+v %v", c, ok)
	}
	if diff := cmp.Diff([]string{".yaml", ".yml"}, c.Extensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestSupportedExtensions_FollowTableOrder(t *testing.T) {
	want := []string{".json", ".yaml", ".yml", ".toml"}
	if diff := cmp.Diff(want, template.SupportedExtensions()); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}

	formats := template.SupportedFormats()
	formats[0].Extensions[0] = ".mutated"
	if template.SupportedExtensions()[0] != ".json" {
		t.Fatalf("SupportedFormats must return a copy")
	}
}

func asKind[T domainerr.Error](err error, target *T) bool {
	de, ok := domainerr.As(err)
	if !ok {
		return false
	}
	v, ok := de.(T)
	if ok {
		*target = v
	}
	return ok
}
