package template

import "github.com/goliatone/go-templatemap/pkg/domainerr"

// DefaultConcurrencyLimit is the upper bound for MaxConcurrency unless a
// different limit is configured.
const DefaultConcurrencyLimit = 20

const (
	defaultParallel        = true
	defaultMaxConcurrency  = 5
	defaultContinueOnError = false
)

// ProcessingOptionsInput holds caller supplied values. Nil fields take the
// defaults.
type ProcessingOptionsInput struct {
	Parallel        *bool
	MaxConcurrency  *int
	ContinueOnError *bool
}

// ProcessingOptions configures batch processing. Values are validated at
// construction and never clamped.
type ProcessingOptions struct {
	parallel        bool
	maxConcurrency  int
	continueOnError bool
}

// NewProcessingOptions validates in against DefaultConcurrencyLimit.
func NewProcessingOptions(in ProcessingOptionsInput) (ProcessingOptions, error) {
	return NewProcessingOptionsWithLimit(in, DefaultConcurrencyLimit)
}

// NewProcessingOptionsWithLimit validates in against limit.
func NewProcessingOptionsWithLimit(in ProcessingOptionsInput, limit int) (ProcessingOptions, error) {
	if limit < 1 {
		return ProcessingOptions{}, &domainerr.OutOfRange{Field: "maxConcurrencyLimit", Value: limit, Min: 1, Max: limit}
	}

	opts := ProcessingOptions{
		parallel:        defaultParallel,
		maxConcurrency:  defaultMaxConcurrency,
		continueOnError: defaultContinueOnError,
	}
	if in.Parallel != nil {
		opts.parallel = *in.Parallel
	}
	if in.MaxConcurrency != nil {
		opts.maxConcurrency = *in.MaxConcurrency
	}
	if in.ContinueOnError != nil {
		opts.continueOnError = *in.ContinueOnError
	}

	if opts.maxConcurrency < 1 || opts.maxConcurrency > limit {
		return ProcessingOptions{}, &domainerr.OutOfRange{
			Field: "maxConcurrency",
			Value: opts.maxConcurrency,
			Min:   1,
			Max:   limit,
		}
	}
	return opts, nil
}

func (o ProcessingOptions) Parallel() bool        { return o.parallel }
func (o ProcessingOptions) MaxConcurrency() int   { return o.maxConcurrency }
func (o ProcessingOptions) ContinueOnError() bool { return o.continueOnError }

// Ptr returns a pointer to v, for filling ProcessingOptionsInput literals.
func Ptr[T any](v T) *T {
	return &v
}
