package errctx

import (
	"fmt"
	"sort"
	"strings"
)

const indentUnit = "  "

// Format renders ctx as a multi-line block. Sections appear in a fixed order
// and only when they carry data. Recovery guidance is numbered from 1 and the
// parent of a nested context is rendered, indented, after the child.
func Format(ctx Context) string {
	if ctx == nil {
		return ""
	}
	var b strings.Builder
	writeContext(&b, ctx, "")
	return strings.TrimRight(b.String(), "\n")
}

func writeContext(b *strings.Builder, ctx Context, indent string) {
	base := ctx.Base()
	if base == nil {
		return
	}
	writeLine(b, indent, "Level: %s", ctx.Level())
	if base.Operation != "" {
		writeLine(b, indent, "Operation: %s", base.Operation)
	}
	if base.Location != "" {
		writeLine(b, indent, "Location: %s", base.Location)
	}

	var (
		standard      *Standard
		detailed      *Detailed
		comprehensive *Comprehensive
	)
	switch c := ctx.(type) {
	case *Comprehensive:
		comprehensive, detailed, standard = c, &c.Detailed, &c.Standard
	case *Detailed:
		detailed, standard = c, &c.Standard
	case *Standard:
		standard = c
	}

	if standard != nil {
		if standard.ErrorType != "" {
			writeLine(b, indent, "Error Type: %s", standard.ErrorType)
		}
		writeMap(b, indent, "Inputs", standard.Inputs)
	}

	if detailed != nil {
		if len(detailed.Decisions) > 0 {
			writeLine(b, indent, "Decisions:")
			for _, decision := range detailed.Decisions {
				writeLine(b, indent+indentUnit, "- %s", decision)
			}
		}
		if p := detailed.Progress; p != nil {
			if p.Total > 0 {
				writeLine(b, indent, "Progress: %s (%d/%d)", p.Stage, p.Completed, p.Total)
			} else {
				writeLine(b, indent, "Progress: %s", p.Stage)
			}
		}
		if len(detailed.RecoveryGuidance) > 0 {
			writeLine(b, indent, "Recovery Guidance:")
			for i, step := range detailed.RecoveryGuidance {
				writeLine(b, indent+indentUnit, "%d. %s", i+1, step)
			}
		}
	}

	if comprehensive != nil {
		writeMap(b, indent, "Additional Data", comprehensive.AdditionalData)
		writeLine(b, indent, "Context Depth: %d", comprehensive.ContextDepth)
		if comprehensive.Parent != nil {
			writeLine(b, indent, "Parent Context:")
			writeContext(b, comprehensive.Parent, indent+indentUnit)
		}
	}
}

func writeMap(b *strings.Builder, indent, title string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writeLine(b, indent, "%s:", title)
	for _, k := range keys {
		writeLine(b, indent+indentUnit, "%s: %v", k, values[k])
	}
}

func writeLine(b *strings.Builder, indent, format string, args ...any) {
	b.WriteString(indent)
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}
