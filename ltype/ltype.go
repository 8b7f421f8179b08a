//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package ltype defines the local-type abstract syntax produced by
// projecting a global type onto a single role, together with the
// structural hashing and first/step fixpoint computations the
// projectability check and DFA construction build on.
package ltype

import (
	"fmt"
	"strings"

	"github.com/mpst-lang/mpstgo/action"
)

// Type is a node of a local type. The concrete variants are End, Msg, Rec,
// Var and Choice.
type Type interface {
	isLType()
	String() string
}

// End marks that this role has nothing left to do.
type End struct{}

func (End) isLType()       {}
func (End) String() string { return "end" }

// Msg is a single send or receive followed by a continuation.
type Msg struct {
	Action action.Action
	Cont   Type
}

func (*Msg) isLType() {}
func (m *Msg) String() string {
	return fmt.Sprintf("%s;\n%s", m.Action, m.Cont)
}

// Rec introduces a recursion variable bound to Body. ID is assigned by
// Resolve and is the binder index every Var within Body that refers to
// TVar resolves to.
type Rec struct {
	TVar string
	Body Type
	ID   int
}

func (*Rec) isLType() {}
func (r *Rec) String() string {
	return fmt.Sprintf("rec %s {\n%s\n}", r.TVar, r.Body)
}

// Var references an enclosing Rec by its resolved binder ID.
type Var struct {
	TVar     string
	BinderID int
}

func (*Var) isLType()       {}
func (v *Var) String() string { return fmt.Sprintf("continue %s", v.TVar) }

// Choice is a local mixed choice: one local type per branch of the
// originating global choice. The project package builds it only after the
// projectable package has accepted that global choice (a rejected choice
// yields a typed error instead); the dfa package subsequently merges its
// branches into a canonical trace across all branches. DecidedBy names the role whose global choice this
// descends from, for diagnostics only.
type Choice struct {
	DecidedBy string
	Branches  []Type
}

func (*Choice) isLType() {}
func (c *Choice) String() string {
	parts := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		parts[i] = b.String()
	}
	return fmt.Sprintf("choice {\n%s\n}", strings.Join(parts, "} or {\n"))
}
