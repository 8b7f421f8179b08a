//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package gtype

import (
	"github.com/mpst-lang/mpstgo/namegen"
	"github.com/mpst-lang/mpstgo/unionfind"
)

// Normalize rewrites t into canonical form: choices with a single branch
// collapse into that branch, nested choices made by the same role flatten
// one level into their parent, directly nested recursion binders collapse
// into one, recursion binders that are never referenced are dropped, and
// every surviving Rec is renamed to a name unique within the whole
// protocol. It returns the rewritten type; the registry produced by a
// prior Resolve is invalidated and must be recomputed.
func Normalize(t Type, gen *namegen.Generator) Type {
	t = flattenChoices(t)
	t = flattenNestedRecs(t)
	t = dropUnusedRec(t)
	t = renameBinders(t, gen, map[string]string{})
	return t
}

// flattenNestedRecs collapses a chain of recursion binders introduced one
// immediately inside another, with nothing between them — "rec t1 { rec
// t2 { body } }" becomes "rec t1 { body[t2 -> t1] }" — so later passes see
// one binder per actual loop rather than one per syntactic "rec". A
// union-find merges every name in the chain into a single subset keyed by
// the outermost name, which Subsets then hands back as the set of names
// to rewrite onto it.
func flattenNestedRecs(t Type) Type {
	switch n := t.(type) {
	case End:
		return n
	case *Var:
		return n
	case *Msg:
		return &Msg{Action: n.Action, Cont: flattenNestedRecs(n.Cont)}
	case *Choice:
		branches := make([]Type, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = flattenNestedRecs(b)
		}
		return &Choice{Role: n.Role, Branches: branches}
	case *Rec:
		chain := []string{n.TVar}
		body := n.Body
		for {
			inner, ok := body.(*Rec)
			if !ok {
				break
			}
			chain = append(chain, inner.TVar)
			body = inner.Body
		}
		body = flattenNestedRecs(body)
		if len(chain) == 1 {
			return &Rec{TVar: n.TVar, Body: body}
		}
		uf := unionfind.New[string, string]()
		for _, name := range chain[1:] {
			uf.Add(chain[0], name, name)
		}
		rep := chain[0]
		for _, group := range uf.Subsets() {
			for _, merged := range group {
				body = substVar(body, merged, rep)
			}
		}
		return &Rec{TVar: rep, Body: body}
	default:
		return t
	}
}

// substVar renames every free occurrence of from to to, stopping at a
// nested Rec that rebinds from since its occurrences there refer to the
// inner binder instead.
func substVar(t Type, from, to string) Type {
	switch n := t.(type) {
	case End:
		return n
	case *Msg:
		return &Msg{Action: n.Action, Cont: substVar(n.Cont, from, to)}
	case *Choice:
		branches := make([]Type, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = substVar(b, from, to)
		}
		return &Choice{Role: n.Role, Branches: branches}
	case *Var:
		if n.TVar == from {
			return &Var{TVar: to}
		}
		return n
	case *Rec:
		if n.TVar == from {
			return n
		}
		return &Rec{TVar: n.TVar, Body: substVar(n.Body, from, to)}
	default:
		return t
	}
}

func flattenChoices(t Type) Type {
	switch n := t.(type) {
	case End:
		return n
	case *Msg:
		return &Msg{Action: n.Action, Cont: flattenChoices(n.Cont)}
	case *Rec:
		return &Rec{TVar: n.TVar, Body: flattenChoices(n.Body)}
	case *Var:
		return n
	case *Choice:
		branches := make([]Type, 0, len(n.Branches))
		for _, b := range n.Branches {
			fb := flattenChoices(b)
			if inner, ok := fb.(*Choice); ok && inner.Role == n.Role {
				branches = append(branches, inner.Branches...)
				continue
			}
			branches = append(branches, fb)
		}
		if len(branches) == 1 {
			return branches[0]
		}
		return &Choice{Role: n.Role, Branches: branches}
	default:
		return t
	}
}

// dropUnusedRec removes Rec nodes whose TVar is never mentioned by a Var
// in their body, replacing "rec t { P }" with "P" when t does not occur
// free in P.
func dropUnusedRec(t Type) Type {
	switch n := t.(type) {
	case End:
		return n
	case *Msg:
		return &Msg{Action: n.Action, Cont: dropUnusedRec(n.Cont)}
	case *Choice:
		branches := make([]Type, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = dropUnusedRec(b)
		}
		return &Choice{Role: n.Role, Branches: branches}
	case *Var:
		return n
	case *Rec:
		body := dropUnusedRec(n.Body)
		if !mentionsVar(body, n.TVar) {
			return body
		}
		return &Rec{TVar: n.TVar, Body: body}
	default:
		return t
	}
}

func mentionsVar(t Type, tvar string) bool {
	switch n := t.(type) {
	case End:
		return false
	case *Msg:
		return mentionsVar(n.Cont, tvar)
	case *Choice:
		for _, b := range n.Branches {
			if mentionsVar(b, tvar) {
				return true
			}
		}
		return false
	case *Var:
		return n.TVar == tvar
	case *Rec:
		if n.TVar == tvar {
			// shadowed: inner occurrences of the same name refer to the
			// inner binder, not this one.
			return false
		}
		return mentionsVar(n.Body, tvar)
	default:
		return false
	}
}

// renameBinders replaces every Rec/Var TVar with a name unique across the
// whole protocol, using scope "rec" of gen.
func renameBinders(t Type, gen *namegen.Generator, rename map[string]string) Type {
	switch n := t.(type) {
	case End:
		return n
	case *Msg:
		return &Msg{Action: n.Action, Cont: renameBinders(n.Cont, gen, rename)}
	case *Choice:
		branches := make([]Type, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = renameBinders(b, gen, rename)
		}
		return &Choice{Role: n.Role, Branches: branches}
	case *Var:
		if fresh, ok := rename[n.TVar]; ok {
			return &Var{TVar: fresh}
		}
		return n
	case *Rec:
		fresh := gen.Unique("rec", n.TVar)
		inner := make(map[string]string, len(rename)+1)
		for k, v := range rename {
			inner[k] = v
		}
		inner[n.TVar] = fresh
		return &Rec{TVar: fresh, Body: renameBinders(n.Body, gen, inner)}
	default:
		return t
	}
}
