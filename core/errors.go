package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field failure found while constructing a
// single entity. It is fatal to that record only; unrelated records keep
// loading unless the caller asked for strict all-or-nothing mode.
type ValidationError struct {
	Kind   string       `json:"kind"` // entity kind, e.g. "vehicle"
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: validation failed", e.Kind)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
}

// add appends a field failure.
func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// addf appends a formatted field failure.
func (e *ValidationError) addf(field, format string, args ...any) {
	e.add(field, fmt.Sprintf(format, args...))
}

// ok reports whether no failures were recorded.
func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}

// newValidationError starts an empty error for an entity kind.
func newValidationError(kind string) *ValidationError {
	return &ValidationError{Kind: kind}
}

// fromValidator folds validator.ValidationErrors into field errors. The
// leading struct name is stripped from the namespace so messages read as
// data paths ("insurance[0].activationDate"), not Go paths.
func (e *ValidationError) fromValidator(err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.add("", err.Error())
		return
	}
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		msg := fmt.Sprintf("failed %q", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed %q=%s", fe.Tag(), fe.Param())
		}
		e.add(ns, msg)
	}
}

// DuplicateKeyError reports two records in the same family normalizing to
// the same compound key. It is fatal to the whole install: the dataset is
// rejected atomically.
type DuplicateKeyError struct {
	Family string
	Key    string
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s key %q", e.Family, e.Key)
}

// MalformedKeyError reports a lookup key that fails normalization (empty or
// pattern-violating parts). It signals a caller bug and is surfaced
// distinctly from not-found.
type MalformedKeyError struct {
	Part  string
	Value string
}

// Error implements the error interface.
func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed key part %s: %q", e.Part, e.Value)
}
