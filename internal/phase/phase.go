// Package phase turns user-entered phase text into the canonical label stored on a
// vertex.
//
// A phase is a rational multiple of π and is kept symbolic: the only way to make a
// Phase from user input is Parse, which validates the text against a small grammar
// and normalizes it. Labels that arrive from the host in a snapshot are adopted
// verbatim with Label, since the host is the source of truth.
package phase

import (
	"errors"
	"fmt"
)

// Pi is the canonical symbol for π used in normalized labels.
const Pi = "π"

// BoxPlaceholder is the label an H-box gets when its integer phase is even.
const BoxPlaceholder = "0"

// Sentinel errors, matched with errors.Is on a *ParseError.
var (
	// ErrInvalidPhaseFormat covers decimals and non-numeric tokens.
	ErrInvalidPhaseFormat = errors.New("invalid phase format")

	// ErrMalformedFraction covers fractions with the wrong arity or a bad
	// denominator.
	ErrMalformedFraction = errors.New("malformed fraction")
)

// Phase is a normalized phase label. The zero value is the empty phase.
type Phase struct {
	label string
}

// Zero is the empty phase.
var Zero = Phase{}

// Label adopts a host-supplied label as is.
func Label(s string) Phase {
	return Phase{label: s}
}

func (p Phase) String() string { return p.label }

func (p Phase) IsZero() bool { return p.label == "" }

// Reason says why a phase was rejected, for display to the user.
type Reason int

const (
	ReasonNonNumeric Reason = iota + 1
	ReasonDecimal
	ReasonMalformedFraction
)

var reasonText = map[Reason]string{
	ReasonNonNumeric:        "not an integer or a fraction of " + Pi,
	ReasonDecimal:           "decimal values are not allowed",
	ReasonMalformedFraction: "fractions must look like a/b with a positive integer b",
}

func (r Reason) String() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return "unknown"
}

// ParseError is returned by Parse for rejected input.
type ParseError struct {
	Input  string
	Reason Reason
	cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid phase %q: %s", e.Input, e.Reason)
}

// Unwrap exposes the sentinel matching the reason.
func (e *ParseError) Unwrap() error {
	if e.Reason == ReasonMalformedFraction {
		return ErrMalformedFraction
	}
	return ErrInvalidPhaseFormat
}

// Cause returns the underlying grammar error, if any.
func (e *ParseError) Cause() error {
	if e.cause != nil {
		return e.cause
	}
	return e.Unwrap()
}
