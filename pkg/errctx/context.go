package errctx

// Level identifies how complete a diagnostic context is.
type Level string

const (
	LevelMinimal       Level = "minimal"
	LevelStandard      Level = "standard"
	LevelDetailed      Level = "detailed"
	LevelComprehensive Level = "comprehensive"
)

// Rank orders levels from least to most complete. Unknown levels rank 0.
func (l Level) Rank() int {
	switch l {
	case LevelMinimal:
		return 1
	case LevelStandard:
		return 2
	case LevelDetailed:
		return 3
	case LevelComprehensive:
		return 4
	default:
		return 0
	}
}

// Context is the closed set of diagnostic levels. Implementations live in
// this package only.
type Context interface {
	Level() Level
	Base() *Minimal
	isContext()
}

// Progress reports how far a multi-step operation got before failing.
type Progress struct {
	Stage     string
	Completed int
	Total     int
}

// Minimal carries the operation name and where it ran.
type Minimal struct {
	Operation string
	Location  string
}

func (c *Minimal) Level() Level   { return LevelMinimal }
func (c *Minimal) Base() *Minimal { return c }
func (c *Minimal) isContext()     {}

// Standard adds the inputs of the failing operation and a stable error tag.
type Standard struct {
	Minimal
	Inputs    map[string]any
	ErrorType string
}

func (c *Standard) Level() Level { return LevelStandard }

// Detailed adds the decisions taken, progress and recovery guidance.
type Detailed struct {
	Standard
	Decisions        []string
	Progress         *Progress
	RecoveryGuidance []string
}

func (c *Detailed) Level() Level { return LevelDetailed }

// Comprehensive adds free-form data and the nesting information used when
// errors cross layers.
type Comprehensive struct {
	Detailed
	AdditionalData map[string]any
	ContextDepth   int
	Parent         Context
}

func (c *Comprehensive) Level() Level { return LevelComprehensive }

var (
	_ Context = (*Minimal)(nil)
	_ Context = (*Standard)(nil)
	_ Context = (*Detailed)(nil)
	_ Context = (*Comprehensive)(nil)
)

// Depth returns the nesting depth of ctx. Only comprehensive contexts are
// nested, everything else sits at depth 0.
func Depth(ctx Context) int {
	if c, ok := ctx.(*Comprehensive); ok && c != nil {
		return c.ContextDepth
	}
	return 0
}

// Chain returns ctx followed by its ancestors, nearest first.
func Chain(ctx Context) []Context {
	var out []Context
	for ctx != nil {
		out = append(out, ctx)
		c, ok := ctx.(*Comprehensive)
		if !ok || c == nil {
			break
		}
		ctx = c.Parent
	}
	return out
}
