//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package ltype

import "github.com/mpst-lang/mpstgo/action"

// first(L) is the set of actions a local type may perform immediately;
// step(L) maps each such action to the set of continuations reachable by
// performing it. Both are trivial for acyclic types but, like hashing,
// need a fixpoint for recursive ones: a Var's first/step set depends on
// its binder's body, which may itself contain that Var.
//
// FixpointCache computes first/step for every Rec in a registry by
// monotonic iteration: each round recomputes every binder's sets from the
// current (possibly still incomplete) sets of the binders it depends on,
// and the loop stops once a round makes no further change. Because a
// binder's sets only grow, and there are at most len(Binders) independent
// binders, this always converges within len(Binders)+1 rounds.
type FixpointCache struct {
	first []map[action.Key]action.Action
	step  []map[action.Key][]Type
}

// ComputeFixpoints computes and caches first/step for every binder in reg.
func ComputeFixpoints(reg *Registry) *FixpointCache {
	n := len(reg.Binders)
	cache := &FixpointCache{
		first: make([]map[action.Key]action.Action, n),
		step:  make([]map[action.Key][]Type, n),
	}
	for i := range cache.first {
		cache.first[i] = map[action.Key]action.Action{}
		cache.step[i] = map[action.Key][]Type{}
	}

	changed := true
	for iter := 0; iter < n+1 && changed; iter++ {
		changed = false
		for _, rec := range reg.Binders {
			newFirst, newStep := compute(rec.Body, cache)
			if !sameFirst(cache.first[rec.ID], newFirst) || !sameStep(cache.step[rec.ID], newStep) {
				cache.first[rec.ID] = newFirst
				cache.step[rec.ID] = newStep
				changed = true
			}
		}
	}
	return cache
}

// First returns the set of actions t may perform immediately.
func First(t Type, cache *FixpointCache) map[action.Key]action.Action {
	f, _ := compute(t, cache)
	return f
}

// Step returns, for each action t may perform immediately, the set of
// continuations reached by performing it.
func Step(t Type, cache *FixpointCache) map[action.Key][]Type {
	_, s := compute(t, cache)
	return s
}

func compute(t Type, cache *FixpointCache) (map[action.Key]action.Action, map[action.Key][]Type) {
	switch n := t.(type) {
	case End:
		return map[action.Key]action.Action{}, map[action.Key][]Type{}
	case *Msg:
		k := n.Action.Key()
		return map[action.Key]action.Action{k: n.Action}, map[action.Key][]Type{k: {n.Cont}}
	case *Var:
		return copyFirst(cache.first[n.BinderID]), copyStep(cache.step[n.BinderID])
	case *Rec:
		return compute(n.Body, cache)
	case *Choice:
		first := map[action.Key]action.Action{}
		step := map[action.Key][]Type{}
		for _, b := range n.Branches {
			bf, bs := compute(b, cache)
			for k, a := range bf {
				first[k] = a
			}
			for k, conts := range bs {
				step[k] = append(step[k], conts...)
			}
		}
		return first, step
	default:
		return map[action.Key]action.Action{}, map[action.Key][]Type{}
	}
}

func copyFirst(m map[action.Key]action.Action) map[action.Key]action.Action {
	out := make(map[action.Key]action.Action, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStep(m map[action.Key][]Type) map[action.Key][]Type {
	out := make(map[action.Key][]Type, len(m))
	for k, v := range m {
		out[k] = append([]Type(nil), v...)
	}
	return out
}

func sameFirst(a, b map[action.Key]action.Action) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func sameStep(a, b map[action.Key][]Type) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || len(ov) != len(v) {
			return false
		}
	}
	return true
}
