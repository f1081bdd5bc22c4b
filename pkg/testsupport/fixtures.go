package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templatemap/pkg/template"
)

// WriteFile writes body to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// TemplateFS builds an in-memory filesystem from name to body pairs.
func TemplateFS(files map[string]string) fstest.MapFS {
	out := make(fstest.MapFS, len(files))
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

// MustTemplate assembles a template through the public constructors.
func MustTemplate(t *testing.T, id, kind, body string, rules ...template.MappingRule) *template.Template {
	t.Helper()

	tid, err := template.NewID(id)
	if err != nil {
		t.Fatalf("template id: %v", err)
	}
	format, err := template.NewFormat(kind, body)
	if err != nil {
		t.Fatalf("template format: %v", err)
	}
	tpl, err := template.New(tid, format, rules, "")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	return tpl
}

// MustRule builds a mapping rule or fails the test.
func MustRule(t *testing.T, source, target string, opts ...template.RuleOption) template.MappingRule {
	t.Helper()

	rule, err := template.NewMappingRule(source, target, opts...)
	if err != nil {
		t.Fatalf("mapping rule: %v", err)
	}
	return rule
}

// UpdateGoldensEnv names the variable that rewrites golden files instead of
// comparing against them.
const UpdateGoldensEnv = "TEMPLATEMAP_UPDATE_GOLDENS"

// AssertGolden compares got with the golden file at path. When
// TEMPLATEMAP_UPDATE_GOLDENS is set the file is rewritten instead.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()

	if os.Getenv(UpdateGoldensEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o600); err != nil {
			t.Fatalf("update golden %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden %s: %v (set %s=1 to create it)", path, err, UpdateGoldensEnv)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}
