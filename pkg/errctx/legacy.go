package errctx

const unknownField = "unknown"

// Legacy is the optional-field record some callers still produce. Every
// field may be left unset; FromLegacy decides which level it can support.
type Legacy struct {
	Operation        string
	Location         string
	Inputs           map[string]any
	ErrorType        string
	Decisions        []string
	Progress         *Progress
	RecoveryGuidance []string
	AdditionalData   map[string]any
	ContextDepth     *int
	ParentContext    Context
}

// FromLegacy converts data into the most complete level whose required
// fields are all present, falling back toward Minimal. It never fails:
// missing operation or location are reported as "unknown".
//
// Requirements per level (each includes the ones before it):
//
//	Standard      Inputs != nil, ErrorType != ""
//	Detailed      Decisions, Progress and RecoveryGuidance != nil
//	Comprehensive AdditionalData != nil, ContextDepth != nil
//
// ParentContext is optional for Comprehensive and ignored below it.
func FromLegacy(data Legacy) Context {
	minimal := Minimal{
		Operation: orUnknown(data.Operation),
		Location:  orUnknown(data.Location),
	}

	if data.Inputs == nil || data.ErrorType == "" {
		return &minimal
	}
	standard := Standard{
		Minimal:   minimal,
		Inputs:    cloneMap(data.Inputs),
		ErrorType: data.ErrorType,
	}

	if data.Decisions == nil || data.Progress == nil || data.RecoveryGuidance == nil {
		return &standard
	}
	progress := *data.Progress
	detailed := Detailed{
		Standard:         standard,
		Decisions:        append([]string{}, data.Decisions...),
		Progress:         &progress,
		RecoveryGuidance: append([]string{}, data.RecoveryGuidance...),
	}

	if data.AdditionalData == nil || data.ContextDepth == nil {
		return &detailed
	}
	return &Comprehensive{
		Detailed:       detailed,
		AdditionalData: cloneMap(data.AdditionalData),
		ContextDepth:   *data.ContextDepth,
		Parent:         data.ParentContext,
	}
}

func orUnknown(value string) string {
	if value == "" {
		return unknownField
	}
	return value
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
