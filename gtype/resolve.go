//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package gtype

import "fmt"

// Registry collects every Rec node reachable from a resolved Protocol, in
// the order Resolve assigned their IDs. It is the arena downstream passes
// (hashing, fixpoint computation) index into by binder ID rather than by
// following an owning pointer from a Var back to its Rec.
type Registry struct {
	Binders []*Rec
}

// Resolve walks t, assigning a dense ID to every Rec it finds and
// back-filling BinderID on every Var that refers to it lexically. It
// returns an error if a Var references a name with no enclosing Rec.
func Resolve(t Type) (*Registry, error) {
	reg := &Registry{}
	stack := map[string]*Rec{}
	if err := resolve(t, stack, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func resolve(t Type, stack map[string]*Rec, reg *Registry) error {
	switch n := t.(type) {
	case End:
		return nil
	case *Msg:
		return resolve(n.Cont, stack, reg)
	case *Choice:
		for _, b := range n.Branches {
			if err := resolve(b, stack, reg); err != nil {
				return err
			}
		}
		return nil
	case *Rec:
		n.ID = len(reg.Binders)
		reg.Binders = append(reg.Binders, n)
		prev, had := stack[n.TVar]
		stack[n.TVar] = n
		err := resolve(n.Body, stack, reg)
		if had {
			stack[n.TVar] = prev
		} else {
			delete(stack, n.TVar)
		}
		return err
	case *Var:
		binder, ok := stack[n.TVar]
		if !ok {
			return fmt.Errorf("gtype: unbound recursion variable %q", n.TVar)
		}
		n.BinderID = binder.ID
		return nil
	default:
		return fmt.Errorf("gtype: unknown node type %T", t)
	}
}
