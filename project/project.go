//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package project computes, for every role of a global type, the local
// type that role observes: each two-party interaction becomes a send or
// receive (or is skipped entirely, for a role not party to it), and each
// global choice becomes a local mixed choice. Because the projectability
// check needs to compare every role's behaviour within the same branch,
// projection walks every role in lockstep so branch i of one role's
// Choice and branch i of another's always describe the same global
// branch. The projectable package is consulted at each choice once all of
// its branches have been projected, so a choice nested inside a branch is
// checked before the choice enclosing it.
package project

import (
	"fmt"

	"github.com/mpst-lang/mpstgo/gtype"
	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/projectable"
)

// Projection maps a role to the local type it observes.
type Projection map[string]ltype.Type

// Project computes and validates the projection of p onto every role. It
// returns a typed error from the errs package the first time a choice
// fails the projectability check.
func Project(p *gtype.Protocol) (Projection, error) {
	proj, err := projectJoint(p.Name, p.Body, p.Roles)
	if err != nil {
		return nil, err
	}
	for role, t := range proj {
		if _, err := ltype.Resolve(t); err != nil {
			return nil, fmt.Errorf("project: role %s: %w", role, err)
		}
	}
	return proj, nil
}

func projectJoint(protocol string, g gtype.Type, roles []string) (Projection, error) {
	switch n := g.(type) {
	case gtype.End:
		out := Projection{}
		for _, r := range roles {
			out[r] = ltype.End{}
		}
		return out, nil

	case *gtype.Msg:
		contProj, err := projectJoint(protocol, n.Cont, roles)
		if err != nil {
			return nil, err
		}
		out := Projection{}
		for _, r := range roles {
			if a, ok := n.Action.Project(r); ok {
				out[r] = &ltype.Msg{Action: a, Cont: contProj[r]}
			} else {
				out[r] = contProj[r]
			}
		}
		return out, nil

	case *gtype.Choice:
		branchProj := make([]Projection, len(n.Branches))
		for i, b := range n.Branches {
			bp, err := projectJoint(protocol, b, roles)
			if err != nil {
				return nil, err
			}
			branchProj[i] = bp
		}
		branches := projectable.Branches{}
		for _, r := range roles {
			blist := make([]ltype.Type, len(branchProj))
			for i, bp := range branchProj {
				blist[i] = bp[r]
			}
			branches[r] = blist
		}
		if err := projectable.Check(protocol, n.Role, branches); err != nil {
			return nil, err
		}
		out := Projection{}
		for _, r := range roles {
			out[r] = &ltype.Choice{DecidedBy: n.Role, Branches: branches[r]}
		}
		return out, nil

	case *gtype.Rec:
		bodyProj, err := projectJoint(protocol, n.Body, roles)
		if err != nil {
			return nil, err
		}
		out := Projection{}
		for _, r := range roles {
			out[r] = &ltype.Rec{TVar: n.TVar, Body: bodyProj[r]}
		}
		return out, nil

	case *gtype.Var:
		out := Projection{}
		for _, r := range roles {
			out[r] = &ltype.Var{TVar: n.TVar}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("project: unknown global type node %T", g)
	}
}
