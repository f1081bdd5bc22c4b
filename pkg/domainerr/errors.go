// Package domainerr defines the closed set of failures returned by the
// template subsystem.
//
// Every kind is a concrete struct carrying only the fields needed to
// diagnose it. Consumers that must handle every kind implement Visitor; the
// interface lists one method per kind, so adding a kind breaks every visitor
// at compile time instead of falling through a default branch.
//
// ProcessingStageError is the only composition mechanism: it records the
// stage that failed and keeps the inner error reachable through Unwrap.
package domainerr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind tags each member of the union.
type Kind string

const (
	KindEmptyInput            Kind = "EmptyInput"
	KindInvalidFormat         Kind = "InvalidFormat"
	KindOutOfRange            Kind = "OutOfRange"
	KindFileExtensionMismatch Kind = "FileExtensionMismatch"
	KindReadError             Kind = "ReadError"
	KindWriteError            Kind = "WriteError"
	KindMissingRequiredField  Kind = "MissingRequiredField"
	KindProcessingStageError  Kind = "ProcessingStageError"
	KindInvalidResponse       Kind = "InvalidResponse"
)

// Error is implemented by every member of the union and nothing else.
type Error interface {
	error
	Kind() Kind
	accept(Visitor)
}

// EmptyInput reports a required string that was empty after trimming.
type EmptyInput struct {
	Field string
}

func (e *EmptyInput) Error() string {
	if e.Field == "" {
		return "empty input"
	}
	return fmt.Sprintf("empty input: %s is required", e.Field)
}

func (e *EmptyInput) Kind() Kind       { return KindEmptyInput }
func (e *EmptyInput) accept(v Visitor) { v.EmptyInput(e) }

// InvalidFormat reports input that does not have the expected shape.
type InvalidFormat struct {
	Input          string
	ExpectedFormat string
}

const maxInputPreview = 64

func (e *InvalidFormat) Error() string {
	return fmt.Sprintf("invalid format: expected %s, got %q", e.ExpectedFormat, preview(e.Input))
}

func (e *InvalidFormat) Kind() Kind       { return KindInvalidFormat }
func (e *InvalidFormat) accept(v Visitor) { v.InvalidFormat(e) }

// OutOfRange reports a numeric value outside [Min, Max].
type OutOfRange struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRange) Error() string {
	field := e.Field
	if field == "" {
		field = "value"
	}
	return fmt.Sprintf("out of range: %s=%d not in [%d, %d]", field, e.Value, e.Min, e.Max)
}

func (e *OutOfRange) Kind() Kind       { return KindOutOfRange }
func (e *OutOfRange) accept(v Visitor) { v.OutOfRange(e) }

// FileExtensionMismatch reports a path whose extension is not supported.
type FileExtensionMismatch struct {
	Path     string
	Expected []string
}

func (e *FileExtensionMismatch) Error() string {
	return fmt.Sprintf("file extension mismatch: %q does not end in one of %s", e.Path, strings.Join(e.Expected, ", "))
}

func (e *FileExtensionMismatch) Kind() Kind       { return KindFileExtensionMismatch }
func (e *FileExtensionMismatch) accept(v Visitor) { v.FileExtensionMismatch(e) }

// ReadError reports a failed read or stat.
type ReadError struct {
	Path    string
	Details string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %s", e.Path, e.Details)
}

func (e *ReadError) Kind() Kind       { return KindReadError }
func (e *ReadError) accept(v Visitor) { v.ReadError(e) }

// WriteError reports a failed write.
type WriteError struct {
	Path    string
	Details string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Details)
}

func (e *WriteError) Kind() Kind       { return KindWriteError }
func (e *WriteError) accept(v Visitor) { v.WriteError(e) }

// MissingRequiredField lists required fields that were not set.
type MissingRequiredField struct {
	Fields []string
}

func (e *MissingRequiredField) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

func (e *MissingRequiredField) Kind() Kind       { return KindMissingRequiredField }
func (e *MissingRequiredField) accept(v Visitor) { v.MissingRequiredField(e) }

// ProcessingStageError wraps the failure of a named stage.
type ProcessingStageError struct {
	Stage string
	Err   Error
}

func (e *ProcessingStageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Stage)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes the inner error to errors.Is and errors.As.
func (e *ProcessingStageError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

func (e *ProcessingStageError) Kind() Kind       { return KindProcessingStageError }
func (e *ProcessingStageError) accept(v Visitor) { v.ProcessingStageError(e) }

// InvalidResponse reports an unexpected failure raised by a collaborator
// outside the explicit error returns (a recovered panic, for instance).
type InvalidResponse struct {
	Service  string
	Response string
}

func (e *InvalidResponse) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.Service, e.Response)
}

func (e *InvalidResponse) Kind() Kind       { return KindInvalidResponse }
func (e *InvalidResponse) accept(v Visitor) { v.InvalidResponse(e) }

// Stage wraps err with a stage label. A nil err yields nil.
func Stage(stage string, err Error) Error {
	if err == nil {
		return nil
	}
	return &ProcessingStageError{Stage: stage, Err: err}
}

func preview(s string) string {
	if len(s) <= maxInputPreview {
		return s
	}
	cut := maxInputPreview
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
