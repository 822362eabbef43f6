package editor

import (
	"errors"
	"fmt"

	"github.com/agentic-research/canopy/internal/compiler"
	"github.com/agentic-research/canopy/internal/query"
	"github.com/agentic-research/canopy/internal/schema"
	"github.com/agentic-research/canopy/internal/store"
	"github.com/agentic-research/canopy/internal/templates"
	"github.com/agentic-research/canopy/internal/tree"
)

// Kind is the stable failure code surfaced to callers.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindStructuralConflict Kind = "structural_conflict"
	KindUpstreamFailure    Kind = "upstream_failure"
)

// Error is a typed operation failure. Subject names the identifier or field
// involved.
type Error struct {
	Kind    Kind
	Subject string
	Message string
	Err     error
}

// Error returns Message. Upstream failures append the underlying error.
func (e *Error) Error() string {
	if e.Kind == KindUpstreamFailure && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err. Untyped errors count as upstream
// failures; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}

func notFound(subject, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func invalid(subject, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func conflict(subject, format string, args ...any) *Error {
	return &Error{Kind: KindStructuralConflict, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func required(field string) *Error {
	return invalid(field, "%s is required", field)
}

// classify maps a collaborator error onto the taxonomy. Errors that are
// already typed pass through.
func classify(subject string, err error, action string) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	var (
		badKey    *schema.InvalidKeyError
		malformed *tree.MalformedError
		skipped   *compiler.SkipError
		selector  *query.SelectorError
	)
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, schema.ErrUnknownWidget),
		errors.Is(err, templates.ErrNotFound):
		return &Error{Kind: KindNotFound, Subject: subject, Message: err.Error(), Err: err}
	case errors.As(err, &badKey):
		return &Error{Kind: KindInvalidInput, Subject: badKey.Key, Message: err.Error(), Err: err}
	case errors.As(err, &malformed):
		return &Error{Kind: KindInvalidInput, Subject: malformed.Path, Message: err.Error(), Err: err}
	case errors.As(err, &skipped):
		return &Error{Kind: KindInvalidInput, Subject: skipped.Path, Message: err.Error(), Err: err}
	case errors.As(err, &selector):
		return &Error{Kind: KindInvalidInput, Subject: "selector", Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindUpstreamFailure, Subject: subject, Message: action, Err: err}
}
