package errctx

import "time"

// Stable error type tags set by the factories below.
const (
	TypeSchema      = "SchemaError"
	TypeTemplate    = "TemplateError"
	TypeFrontmatter = "FrontmatterError"
	TypePerformance = "PerformanceError"
	TypeFileSystem  = "FileSystemError"
	TypePipeline    = "PipelineError"
	TypeValidation  = "ValidationError"
	TypeChild       = "ChildContext"
)

// SchemaError describes a failure while loading or applying a schema.
func SchemaError(schemaPath, operation string, cause error) *Detailed {
	return detailed(operation, schemaPath, TypeSchema, withCause(map[string]any{
		"schemaPath": schemaPath,
	}, cause),
		"Check that the schema file exists and is readable",
		"Validate the schema syntax against its declared format",
		"Confirm every referenced definition is present in the schema",
	)
}

// TemplateError describes a failure while loading, parsing or storing a
// template.
func TemplateError(templatePath, operation string, cause error) *Detailed {
	return detailed(operation, templatePath, TypeTemplate, withCause(map[string]any{
		"templatePath": templatePath,
	}, cause),
		"Check that the template path ends in .json, .yaml, .yml or .toml",
		"Verify the template file exists and is readable",
		"Validate the template body parses in its declared format",
		"Ensure every mapping entry declares a non-empty source and target",
	)
}

// FrontmatterError describes a failure while extracting frontmatter from an
// input document.
func FrontmatterError(filePath, operation string, cause error) *Detailed {
	return detailed(operation, filePath, TypeFrontmatter, withCause(map[string]any{
		"filePath": filePath,
	}, cause),
		"Check that the frontmatter block is delimited by --- (YAML) or +++ (TOML)",
		"Validate the frontmatter syntax",
		"Remove duplicate keys from the frontmatter block",
	)
}

// PerformanceError records an operation that exceeded its time budget.
func PerformanceError(operation string, elapsed, budget time.Duration) *Detailed {
	return detailed(operation, operation, TypePerformance, map[string]any{
		"elapsed": elapsed.String(),
		"budget":  budget.String(),
	},
		"Reduce the number of documents processed per batch",
		"Lower the configured concurrency if the host is saturated",
		"Enable the template cache to avoid repeated reads",
	)
}

// FileSystemError describes a failed read, write or stat.
func FileSystemError(path, operation string, cause error) *Detailed {
	return detailed(operation, path, TypeFileSystem, withCause(map[string]any{
		"path": path,
	}, cause),
		"Verify the path exists",
		"Check file and directory permissions",
		"Ensure the path is relative to the configured base directory",
	)
}

// PipelineError describes a failure in a multi-stage pipeline and records
// how far it progressed.
func PipelineError(stage string, progress Progress, cause error) *Detailed {
	ctx := detailed("pipeline", stage, TypePipeline, withCause(map[string]any{
		"stage": stage,
	}, cause),
		"Inspect the failing stage output",
		"Re-run the pipeline with continue-on-error to collect every failure",
	)
	if progress.Stage == "" {
		progress.Stage = stage
	}
	ctx.Progress = &progress
	return ctx
}

// ValidationError describes a value rejected by a validation rule.
func ValidationError(field string, value any, rule string) *Detailed {
	return detailed("validate", field, TypeValidation, map[string]any{
		"field": field,
		"value": value,
		"rule":  rule,
	},
		"Correct the value so it satisfies the rule",
		"Check the documented constraints for the field",
	)
}

// ChildContext nests a new context under parent. The child depth is the
// parent depth plus one; the parent is referenced, not copied.
func ChildContext(parent Context, operation, location string, data map[string]any) *Comprehensive {
	additional := cloneMap(data)
	if additional == nil {
		additional = map[string]any{}
	}
	return &Comprehensive{
		Detailed: Detailed{
			Standard: Standard{
				Minimal:   Minimal{Operation: operation, Location: location},
				Inputs:    map[string]any{},
				ErrorType: TypeChild,
			},
			Decisions:        []string{},
			RecoveryGuidance: []string{},
		},
		AdditionalData: additional,
		ContextDepth:   Depth(parent) + 1,
		Parent:         parent,
	}
}

// CustomError builds a detailed context with caller supplied tag and
// guidance.
func CustomError(operation, location, errorType string, inputs map[string]any, guidance ...string) *Detailed {
	return detailed(operation, location, errorType, cloneMap(inputs), guidance...)
}

func detailed(operation, location, errorType string, inputs map[string]any, guidance ...string) *Detailed {
	if inputs == nil {
		inputs = map[string]any{}
	}
	return &Detailed{
		Standard: Standard{
			Minimal:   Minimal{Operation: operation, Location: location},
			Inputs:    inputs,
			ErrorType: errorType,
		},
		Decisions:        []string{},
		RecoveryGuidance: append([]string{}, guidance...),
	}
}

func withCause(inputs map[string]any, cause error) map[string]any {
	if cause != nil {
		inputs["cause"] = cause.Error()
	}
	return inputs
}
