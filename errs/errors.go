//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package errs defines the typed error kinds raised by parsing, projection,
// the projectability check, DFA construction and code generation. Every
// kind carries the offending protocol name and, where meaningful, a role
// and a detail string (ParseError: an excerpt of the source), so the CLI driver can
// report a useful diagnostic without the caller needing to know which
// stage failed.
package errs

import "fmt"

// ParseError reports that the protocol source did not match the surface
// grammar selected on the command line.
type ParseError struct {
	Protocol string
	Excerpt  string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Protocol == "" {
		return fmt.Sprintf("parse error: %v (near %q)", e.Err, e.Excerpt)
	}
	return fmt.Sprintf("parse error in protocol %q: %v (near %q)", e.Protocol, e.Err, e.Excerpt)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InconsistentChoice reports that a role participates in some branches of a
// mixed choice but not in others.
type InconsistentChoice struct {
	Protocol string
	Role     string
	Detail   string
}

func (e *InconsistentChoice) Error() string {
	return fmt.Sprintf("protocol %q: role %q participates in some branches of a choice but not others: %s",
		e.Protocol, e.Role, e.Detail)
}

// InconsistentChoiceLabel reports that one label occurs in the projected
// local types with two different payload shapes; code generation emits one
// message type per label and so cannot represent both.
type InconsistentChoiceLabel struct {
	Protocol string
	Role     string
	Label    string
}

func (e *InconsistentChoiceLabel) Error() string {
	return fmt.Sprintf("protocol %q: role %q uses label %q with a payload shape that differs from an earlier use",
		e.Protocol, e.Role, e.Label)
}

// NotTraceEquivalent reports that DFA construction found two continuations
// in the same product state with different first-action sets.
type NotTraceEquivalent struct {
	Protocol string
	Role     string
	Detail   string
}

func (e *NotTraceEquivalent) Error() string {
	return fmt.Sprintf("protocol %q: role %q is not trace equivalent: %s", e.Protocol, e.Role, e.Detail)
}

// NotProjectable reports that the projectability decision failed for some
// partition of a mixed choice: no admissible split made every sub-partition
// directly projectable.
type NotProjectable struct {
	Protocol string
	Role     string
	Leaders  []string
	Detail   string
}

func (e *NotProjectable) Error() string {
	return fmt.Sprintf("protocol %q: choice involving role %q is not projectable (leaders: %v): %s",
		e.Protocol, e.Role, e.Leaders, e.Detail)
}

// InvalidChoice reports that a candidate partition failed the direct
// projectability rule for a reason short of full non-projectability. The
// partition search in package projectable does not return it: it reports
// a failing partition as false and only the whole choice as NotProjectable.
type InvalidChoice struct {
	Protocol string
	Detail   string
}

func (e *InvalidChoice) Error() string {
	return fmt.Sprintf("protocol %q: invalid choice: %s", e.Protocol, e.Detail)
}

// Violation reports an internal invariant break, such as dfa.Build
// receiving a local type with an unbound recursion variable.
type Violation struct {
	Protocol string
	Detail   string
}

func (e *Violation) Error() string {
	return fmt.Sprintf("protocol %q: internal invariant violated: %s", e.Protocol, e.Detail)
}
