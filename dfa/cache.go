//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package dfa

import (
	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/ltype"
)

// transitionCache memoizes first/step computation per local-type node
// against a single FixpointCache built once for the whole tree being
// explored. A continuation reached mid-exploration is routinely a fragment
// torn out of some enclosing Rec's body, so it can contain a Var that is
// free with respect to the fragment itself; the shared FixpointCache
// already holds every binder's converged first/step sets keyed by binder
// ID (assigned once, up front, over the complete tree), so looking a
// fragment's sets up needs no further resolution of that fragment alone.
type transitionCache struct {
	fix   *ltype.FixpointCache
	first map[ltype.Type]map[action.Key]action.Action
	step  map[ltype.Type]map[action.Key][]ltype.Type
}

func newTransitionCache(fix *ltype.FixpointCache) *transitionCache {
	return &transitionCache{
		fix:   fix,
		first: map[ltype.Type]map[action.Key]action.Action{},
		step:  map[ltype.Type]map[action.Key][]ltype.Type{},
	}
}

func (tc *transitionCache) compute(t ltype.Type) (map[action.Key]action.Action, map[action.Key][]ltype.Type) {
	if f, ok := tc.first[t]; ok {
		return f, tc.step[t]
	}
	f := ltype.First(t, tc.fix)
	s := ltype.Step(t, tc.fix)
	tc.first[t] = f
	tc.step[t] = s
	return f, s
}

// hashCache memoizes the structural hash of local-type nodes against a
// single ltype.HashCache built once for the whole tree (same reasoning as
// transitionCache: a fragment's free Vars resolve through binder IDs
// assigned over the complete tree, not over the fragment in isolation), and
// folds a list of nodes into a single order-independent hash the same way
// ltype.Choice folds its branch hashes: xor the set of distinct values.
type hashCache struct {
	hc   *ltype.HashCache
	memo map[ltype.Type]uint64
}

func newHashCache(hc *ltype.HashCache) *hashCache {
	return &hashCache{hc: hc, memo: map[ltype.Type]uint64{}}
}

func (c *hashCache) hash(t ltype.Type) uint64 {
	if h, ok := c.memo[t]; ok {
		return h
	}
	h := ltype.Hash(t, c.hc)
	c.memo[t] = h
	return h
}

func (c *hashCache) hashList(ts []ltype.Type) uint64 {
	var acc uint64
	seen := map[uint64]bool{}
	for _, t := range ts {
		h := c.hash(t)
		if seen[h] {
			continue
		}
		seen[h] = true
		acc ^= h
	}
	return acc
}
