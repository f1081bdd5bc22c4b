package domainerr

import (
	"errors"

	"github.com/goliatone/go-templatemap/pkg/errctx"
)

// Visitor handles every kind. Implementations must provide all methods.
type Visitor interface {
	EmptyInput(*EmptyInput)
	InvalidFormat(*InvalidFormat)
	OutOfRange(*OutOfRange)
	FileExtensionMismatch(*FileExtensionMismatch)
	ReadError(*ReadError)
	WriteError(*WriteError)
	MissingRequiredField(*MissingRequiredField)
	ProcessingStageError(*ProcessingStageError)
	InvalidResponse(*InvalidResponse)
}

// Visit dispatches err to the matching Visitor method. Nil errors are
// ignored.
func Visit(err Error, v Visitor) {
	if err == nil || v == nil {
		return
	}
	err.accept(v)
}

// As returns the first domain error in err's chain.
func As(err error) (Error, bool) {
	var target Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf returns the kind of the first domain error in err's chain, or ""
// when there is none.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind()
	}
	return ""
}

// Root follows ProcessingStageError wrappers down to the originating kind.
func Root(err error) Error {
	de, ok := As(err)
	if !ok {
		return nil
	}
	for {
		stage, ok := de.(*ProcessingStageError)
		if !ok || stage.Err == nil {
			return de
		}
		de = stage.Err
	}
}

// Stages returns the stage labels from outermost to innermost.
func Stages(err error) []string {
	de, ok := As(err)
	if !ok {
		return nil
	}
	var out []string
	for {
		stage, ok := de.(*ProcessingStageError)
		if !ok {
			return out
		}
		out = append(out, stage.Stage)
		if stage.Err == nil {
			return out
		}
		de = stage.Err
	}
}

// Annotated pairs a domain error with the diagnostic context captured where
// it was detected. It is not a kind of its own; Unwrap yields the domain
// error.
type Annotated struct {
	Err     Error
	Context errctx.Context
}

func (a *Annotated) Error() string {
	if a.Err == nil {
		return "unknown domain error"
	}
	return a.Err.Error()
}

func (a *Annotated) Unwrap() error {
	if a.Err == nil {
		return nil
	}
	return a.Err
}

// Annotate attaches ctx to err. A nil err yields nil.
func Annotate(err Error, ctx errctx.Context) error {
	if err == nil {
		return nil
	}
	return &Annotated{Err: err, Context: ctx}
}

// ContextOf returns the diagnostic context attached to err, if any.
func ContextOf(err error) (errctx.Context, bool) {
	var annotated *Annotated
	if errors.As(err, &annotated) && annotated.Context != nil {
		return annotated.Context, true
	}
	return nil, false
}
