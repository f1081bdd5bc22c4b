package errctx_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templatemap/pkg/errctx"
)

func TestFromLegacy_SelectsHighestPopulatedLevel(t *testing.T) {
	depth := 2
	parent := errctx.TemplateError("a.json", "load", nil)

	tests := []struct {
		name string
		in   errctx.Legacy
		want errctx.Level
	}{
		{
			name: "empty record",
			in:   errctx.Legacy{},
			want: errctx.LevelMinimal,
		},
		{
			name: "operation and location",
			in:   errctx.Legacy{Operation: "load", Location: "a.json"},
			want: errctx.LevelMinimal,
		},
		{
			name: "inputs without error type",
			in:   errctx.Legacy{Operation: "load", Location: "a.json", Inputs: map[string]any{}},
			want: errctx.LevelMinimal,
		},
		{
			name: "standard",
			in: errctx.Legacy{
				Operation: "load", Location: "a.json",
				Inputs: map[string]any{"path": "a.json"}, ErrorType: "TemplateError",
			},
			want: errctx.LevelStandard,
		},
		{
			name: "partial detailed stays standard",
			in: errctx.Legacy{
				Operation: "load", Location: "a.json",
				Inputs: map[string]any{}, ErrorType: "TemplateError",
				Decisions: []string{"use cache"},
			},
			want: errctx.LevelStandard,
		},
		{
			name: "detailed",
			in: errctx.Legacy{
				Operation: "load", Location: "a.json",
				Inputs: map[string]any{}, ErrorType: "TemplateError",
				Decisions:        []string{"use cache"},
				Progress:         &errctx.Progress{Stage: "parse", Completed: 2, Total: 4},
				RecoveryGuidance: []string{"retry"},
			},
			want: errctx.LevelDetailed,
		},
		{
			name: "comprehensive",
			in: errctx.Legacy{
				Operation: "load", Location: "a.json",
				Inputs: map[string]any{}, ErrorType: "TemplateError",
				Decisions:        []string{},
				Progress:         &errctx.Progress{},
				RecoveryGuidance: []string{},
				AdditionalData:   map[string]any{"attempt": 1},
				ContextDepth:     &depth,
				ParentContext:    parent,
			},
			want: errctx.LevelComprehensive,
		},
		{
			name: "comprehensive fields without detailed fields",
			in: errctx.Legacy{
				Operation: "load", Location: "a.json",
				Inputs: map[string]any{}, ErrorType: "TemplateError",
				AdditionalData: map[string]any{},
				ContextDepth:   &depth,
			},
			want: errctx.LevelStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errctx.FromLegacy(tt.in)
			if got == nil {
				t.Fatalf("FromLegacy returned nil")
			}
			if got.Level() != tt.want {
				t.Fatalf("level mismatch: want %s got %s", tt.want, got.Level())
			}
		})
	}
}

func TestFromLegacy_FillsUnknownAndKeepsParent(t *testing.T) {
	minimal := errctx.FromLegacy(errctx.Legacy{})
	want := &errctx.Minimal{Operation: "unknown", Location: "unknown"}
	if diff := cmp.Diff(want, minimal); diff != "" {
		t.Fatalf("minimal mismatch (-want +got):\n%s", diff)
	}

	depth := 3
	parent := &errctx.Minimal{Operation: "outer", Location: "pipeline"}
	got := errctx.FromLegacy(errctx.Legacy{
		Operation: "inner", Location: "x.yaml",
		Inputs: map[string]any{}, ErrorType: "T",
		Decisions: []string{}, Progress: &errctx.Progress{}, RecoveryGuidance: []string{},
		AdditionalData: map[string]any{}, ContextDepth: &depth, ParentContext: parent,
	})
	c, ok := got.(*errctx.Comprehensive)
	if !ok {
		t.Fatalf("expected *Comprehensive, got %T", got)
	}
	if c.ContextDepth != 3 {
		t.Fatalf("depth mismatch: %d", c.ContextDepth)
	}
	if c.Parent != errctx.Context(parent) {
		t.Fatalf("parent should be kept by reference")
	}
}

func TestChildContext_IncrementsDepth(t *testing.T) {
	root := errctx.TemplateError("a.json", "load", errors.New("boom"))
	child := errctx.ChildContext(root, "parse", "a.json", nil)
	if child.ContextDepth != 1 {
		t.Fatalf("child of non-nested context should have depth 1, got %d", child.ContextDepth)
	}
	if child.Parent != errctx.Context(root) {
		t.Fatalf("child must reference its parent")
	}

	grandchild := errctx.ChildContext(child, "extract", "a.json", map[string]any{"index": 2})
	if grandchild.ContextDepth != 2 {
		t.Fatalf("grandchild depth mismatch: %d", grandchild.ContextDepth)
	}
	if grandchild.AdditionalData["index"] != 2 {
		t.Fatalf("additional data not kept: %#v", grandchild.AdditionalData)
	}

	orphan := errctx.ChildContext(nil, "op", "loc", nil)
	if orphan.ContextDepth != 1 {
		t.Fatalf("nil parent counts as depth 0, got child depth %d", orphan.ContextDepth)
	}

	chain := errctx.Chain(grandchild)
	if len(chain) != 3 {
		t.Fatalf("chain length mismatch: %d", len(chain))
	}
}

func TestFactories_SetStableTypes(t *testing.T) {
	cause := errors.New("denied")
	tests := []struct {
		name string
		ctx  *errctx.Detailed
		want string
	}{
		{"schema", errctx.SchemaError("s.json", "load", cause), errctx.TypeSchema},
		{"template", errctx.TemplateError("t.json", "load", cause), errctx.TypeTemplate},
		{"frontmatter", errctx.FrontmatterError("doc.md", "split", cause), errctx.TypeFrontmatter},
		{"performance", errctx.PerformanceError("map", 2*time.Second, time.Second), errctx.TypePerformance},
		{"filesystem", errctx.FileSystemError("t.json", "stat", cause), errctx.TypeFileSystem},
		{"pipeline", errctx.PipelineError("transform", errctx.Progress{Completed: 1, Total: 3}, cause), errctx.TypePipeline},
		{"validation", errctx.ValidationError("maxConcurrency", 0, "range 1..20"), errctx.TypeValidation},
		{"custom", errctx.CustomError("op", "loc", "Custom", nil, "do this"), "Custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ctx.ErrorType != tt.want {
				t.Fatalf("error type mismatch: want %s got %s", tt.want, tt.ctx.ErrorType)
			}
			if tt.ctx.Level() != errctx.LevelDetailed {
				t.Fatalf("factories produce detailed contexts, got %s", tt.ctx.Level())
			}
			if len(tt.ctx.RecoveryGuidance) == 0 {
				t.Fatalf("expected recovery guidance")
			}
		})
	}

	pipeline := errctx.PipelineError("transform", errctx.Progress{Completed: 1, Total: 3}, nil)
	if pipeline.Progress == nil || pipeline.Progress.Stage != "transform" {
		t.Fatalf("pipeline progress stage should default to the stage name: %#v", pipeline.Progress)
	}
	if _, ok := pipeline.Inputs["cause"]; ok {
		t.Fatalf("nil cause should not be recorded")
	}
}

func TestFormat_RendersPresentSectionsInOrder(t *testing.T) {
	root := errctx.CustomError("load", "a.json", "TemplateError",
		map[string]any{"path": "a.json"},
		"Check the path",
		"Retry",
	)
	child := errctx.ChildContext(root, "parse", "a.json#mappings", map[string]any{"index": 1})

	got := errctx.Format(child)
	want := strings.Join([]string{
		"Level: comprehensive",
		"Operation: parse",
		"Location: a.json#mappings",
		"Error Type: ChildContext",
		"Additional Data:",
		"  index: 1",
		"Context Depth: 1",
		"Parent Context:",
		"  Level: detailed",
		"  Operation: load",
		"  Location: a.json",
		"  Error Type: TemplateError",
		"  Inputs:",
		"    path: a.json",
		"  Recovery Guidance:",
		"    1. Check the path",
		"    2. Retry",
	}, "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_MinimalAndProgress(t *testing.T) {
	got := errctx.Format(&errctx.Minimal{Operation: "stat"})
	if diff := cmp.Diff("Level: minimal\nOperation: stat", got); diff != "" {
		t.Fatalf("minimal format mismatch (-want +got):\n%s", diff)
	}

	pipeline := errctx.PipelineError("map", errctx.Progress{Completed: 2, Total: 5}, nil)
	if !strings.Contains(errctx.Format(pipeline), "Progress: map (2/5)") {
		t.Fatalf("progress line missing:\n%s", errctx.Format(pipeline))
	}

	if errctx.Format(nil) != "" {
		t.Fatalf("nil context should format to an empty string")
	}
}
