// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/conlang-forge/internal/parse"
)

// Error kinds. Every error returned by an Adapter operation is an *Error
// whose Kind is one of these, so callers can branch with errors.Is.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrEmptyInput        = errors.New("empty input")
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = parse.ErrMalformedResponse
)

// Error is the failure descriptor of an operation. Its message is fit for
// direct display and includes the underlying cause when there is one.
type Error struct {
	// Op names the operation, e.g. "repair lexicon". Empty on errors raised
	// inside a chunk before they reach the operation boundary.
	Op string

	// Kind is one of the Err* sentinels.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Err == nil:
		b.WriteString(e.Kind.Error())
	case errors.Is(e.Err, e.Kind):
		b.WriteString(e.Err.Error())
	default:
		fmt.Fprintf(&b, "%v: %v", e.Kind, e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind sentinel carried by err, or nil.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}

// classify tags err with kind without naming the operation yet.
func classify(kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// fail turns err into the operation's boundary error. A kind assigned
// deeper in the call (inside a chunk) is lifted to the boundary; the full
// chain, including chunk position, stays the cause. Untagged errors are
// transport failures.
func fail(op string, err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Op != "" {
			return err
		}
		return &Error{Op: op, Kind: fe.Kind, Err: err}
	}
	return &Error{Op: op, Kind: ErrTransport, Err: err}
}

func emptyInput(op, reason string) error {
	return &Error{Op: op, Kind: ErrEmptyInput, Err: errors.New(reason)}
}
