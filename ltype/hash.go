//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package ltype

// Structural hashing of recursive local types cannot simply recurse to a
// fixed point the way a finite tree's hash can: a Var's hash depends on
// its binder, and the binder's hash depends on its body, which may contain
// the very Var we started from. ComputeHashes breaks the cycle by
// successive approximation: an initial pass hashes every Var to a constant
// sentinel, then depth more passes re-hash the whole tree, each time
// letting a Var read the binder's hash value as computed by the *previous*
// pass. The number of passes depends only on the shape of the type (depth
// being the deepest recursion nesting in it), so alpha-equivalent types go
// through the same passes and end with the same values. The values are not
// a fixed point: a further pass changes the value of any binder whose body
// refers to itself.

const (
	endSentinel = 0x9e3779b97f4a7c15
	varSentinel = 0xc2b2ae3d27d4eb4f
)

// HashCache holds the hash value of every Rec's body as of the last pass
// that visited it, indexed by binder ID.
type HashCache struct {
	values []uint64
}

// ComputeHashes runs the successive-approximation passes over root using
// reg's binders and returns the cache of per-binder hash values left by the
// last pass. Call Hash(root, cache) afterwards to obtain root's own hash.
func ComputeHashes(root Type, reg *Registry) *HashCache {
	cache := &HashCache{values: make([]uint64, len(reg.Binders))}
	depth := maxRecDepth(root, 0)
	hashRec(root, cache, true)
	for i := 0; i < depth; i++ {
		hashRec(root, cache, false)
	}
	return cache
}

// Hash returns t's structural hash, reading each Var's value from cache.
// Hashing a Rec also stores the newly computed value of its body back into
// cache under that Rec's ID.
func Hash(t Type, cache *HashCache) uint64 {
	return hashRec(t, cache, false)
}

func maxRecDepth(t Type, cur int) int {
	switch n := t.(type) {
	case End:
		return cur
	case *Msg:
		return maxRecDepth(n.Cont, cur)
	case *Choice:
		max := cur
		for _, b := range n.Branches {
			if d := maxRecDepth(b, cur); d > max {
				max = d
			}
		}
		return max
	case *Rec:
		return maxRecDepth(n.Body, cur+1)
	case *Var:
		return cur
	default:
		return cur
	}
}

func hashRec(t Type, cache *HashCache, constTVar bool) uint64 {
	switch n := t.(type) {
	case End:
		return endSentinel
	case *Msg:
		return mix(n.Action.Hash(), hashRec(n.Cont, cache, constTVar))
	case *Var:
		if constTVar {
			return varSentinel
		}
		return cache.values[n.BinderID]
	case *Rec:
		h := hashRec(n.Body, cache, constTVar)
		cache.values[n.ID] = h
		return h
	case *Choice:
		var acc uint64
		seen := map[uint64]bool{}
		for _, b := range n.Branches {
			h := hashRec(b, cache, constTVar)
			if seen[h] {
				continue
			}
			seen[h] = true
			acc ^= h
		}
		return acc
	default:
		return 0
	}
}

func mix(a, b uint64) uint64 {
	h := a*1099511628211 ^ b
	return h
}
