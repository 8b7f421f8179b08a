//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package ltype

import "fmt"

// Registry collects every Rec node reachable from a resolved local type, in
// the order Resolve assigned their IDs, serving as the index the hash and
// fixpoint caches are keyed by instead of following an owning pointer from
// a Var to its binder.
type Registry struct {
	Binders []*Rec
}

// Resolve walks t, assigning a dense ID to every Rec and back-filling
// BinderID on every Var that refers to it lexically.
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
			return fmt.Errorf("ltype: unbound recursion variable %q", n.TVar)
		}
		n.BinderID = binder.ID
		return nil
	default:
		return fmt.Errorf("ltype: unknown node type %T", t)
	}
}
