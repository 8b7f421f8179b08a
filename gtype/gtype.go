//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package gtype defines the global-type abstract syntax: the protocol-wide
// view of a multiparty session, expressed as an ordered sequence of
// two-party interactions, one-of-many branching choices, and recursion.
package gtype

import (
	"fmt"
	"strings"

	"github.com/mpst-lang/mpstgo/action"
)

// Type is a node of a global type. The concrete variants are End, Msg,
// Choice, Rec and Var.
type Type interface {
	isGType()
	String() string
}

// End marks protocol termination.
type End struct{}

func (End) isGType()        {}
func (End) String() string  { return "end" }

// Msg is a single two-party interaction followed by a continuation.
type Msg struct {
	Action action.Global
	Cont   Type
}

func (*Msg) isGType() {}
func (m *Msg) String() string {
	return fmt.Sprintf("%s;\n%s", m.Action, m.Cont)
}

// Choice is a branching point where Role decides, unilaterally or jointly
// with other roles, which of Branches to follow. Every role must take part
// in all branches or in none (enforced after projection by the projectable
// package's InconsistentChoice check), though roles may observe different
// behaviour depending on the branch.
type Choice struct {
	Role     string
	Branches []Type
}

func (*Choice) isGType() {}
func (c *Choice) String() string {
	parts := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		parts[i] = b.String()
	}
	return fmt.Sprintf("choice at %s {\n%s\n}", c.Role, strings.Join(parts, "} or {\n"))
}

// Rec introduces a recursion variable bound to Body; Var references it.
type Rec struct {
	TVar string
	Body Type

	// ID is assigned by Resolve: a dense, zero-based index used as the
	// back-reference target for every Var bound by this Rec, instead of a
	// pointer the Var would otherwise own.
	ID int
}

func (*Rec) isGType() {}
func (r *Rec) String() string {
	return fmt.Sprintf("rec %s {\n%s\n}", r.TVar, r.Body)
}

// Var references an enclosing Rec by name. BinderID is populated by
// Resolve and is the index into a Registry's Binders slice.
type Var struct {
	TVar     string
	BinderID int
}

func (*Var) isGType()       {}
func (v *Var) String() string { return fmt.Sprintf("continue %s", v.TVar) }

// Protocol is a named, fully-resolved global type together with its role
// list, ready for projection.
type Protocol struct {
	Name  string
	Roles []string
	Body  Type
}
