//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package dfa merges a role's projected local type into a trace-equivalent
// automaton and converts that automaton back into a canonical recursive
// local type: one Rec per cycle, using a fresh recursion variable per
// distinct reachable state.
//
// Construction is breadth-first over states, where a state is a set of
// local-type continuations that must all agree on their first-action set
// (anything else is a NotTraceEquivalent error); states are interned by a
// structural hash over that set, so continuations that differ only in the
// names of their recursion variables or the order of their choice branches
// collapse into one DFA state. No minimisation pass follows: states whose
// continuations differ structurally stay distinct even when they behave
// identically.
// Back-conversion is a depth-first walk that emits a Var the moment it
// revisits a state still on the current path, and wraps a state's
// translation in a Rec exactly when that state's own recursion variable
// was actually referenced somewhere in its subtree.
package dfa

import (
	"fmt"
	"sort"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/errs"
	"github.com/mpst-lang/mpstgo/ltype"
)

// Build merges root's reachable continuations into a DFA and returns the
// canonical recursive local type for protocol's role. It returns a
// *errs.NotTraceEquivalent if any two continuations that must be merged
// disagree on their first-action set.
func Build(protocol, role string, root ltype.Type) (ltype.Type, error) {
	reg, err := ltype.Resolve(root)
	if err != nil {
		return nil, &errs.Violation{
			Protocol: protocol,
			Detail:   fmt.Sprintf("role %s: local type has an unbound recursion variable: %v", role, err),
		}
	}
	fix := ltype.ComputeFixpoints(reg)
	hashes := ltype.ComputeHashes(root, reg)

	d := &dfaBuilder{
		protocol:    protocol,
		role:        role,
		tc:          newTransitionCache(fix),
		hc:          newHashCache(hashes),
		states:      map[uint64]*dfaState{},
		transitions: map[*dfaState]map[action.Key]*dfaState{},
		recNames:    map[uint64]string{},
	}
	start, err := d.newState([]ltype.Type{root})
	if err != nil {
		return nil, err
	}
	d.states[start.hash] = start
	d.transitions[start] = map[action.Key]*dfaState{}

	queue := []*dfaState{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curTrans := map[action.Key]*dfaState{}
		for key, nextTypes := range cur.step {
			ns, err := d.newState(nextTypes)
			if err != nil {
				return nil, err
			}
			if existing, ok := d.states[ns.hash]; ok {
				curTrans[key] = existing
			} else {
				d.states[ns.hash] = ns
				curTrans[key] = ns
				queue = append(queue, ns)
			}
		}
		d.transitions[cur] = curTrans
	}

	return d.toLType(start, map[*dfaState]*bool{}), nil
}

// dfaState is a set of local-type continuations that agree on their
// first-action set, interned by the structural hash of that set.
type dfaState struct {
	types   []ltype.Type
	actions map[action.Key]action.Action
	step    map[action.Key][]ltype.Type
	hash    uint64
}

type dfaBuilder struct {
	protocol    string
	role        string
	tc          *transitionCache
	hc          *hashCache
	states      map[uint64]*dfaState
	transitions map[*dfaState]map[action.Key]*dfaState
	recNames    map[uint64]string
	nextTVar    int
}

func (d *dfaBuilder) newState(types []ltype.Type) (*dfaState, error) {
	var actions map[action.Key]action.Action
	var step map[action.Key][]ltype.Type

	for i, t := range types {
		f, s := d.tc.compute(t)
		if i == 0 {
			actions = f
			step = make(map[action.Key][]ltype.Type, len(s))
			for k, v := range s {
				step[k] = append([]ltype.Type(nil), v...)
			}
			continue
		}
		if len(f) != len(actions) {
			return nil, &errs.NotTraceEquivalent{
				Protocol: d.protocol,
				Role:     d.role,
				Detail:   "merged continuations disagree on their set of first actions",
			}
		}
		for k, v := range s {
			if _, ok := step[k]; !ok {
				return nil, &errs.NotTraceEquivalent{
					Protocol: d.protocol,
					Role:     d.role,
					Detail:   fmt.Sprintf("merged continuations disagree on action %q", k.Label),
				}
			}
			step[k] = dedupTypes(step[k], v, d.hc)
		}
	}

	return &dfaState{
		types:   types,
		actions: actions,
		step:    step,
		hash:    d.hc.hashList(types),
	}, nil
}

func dedupTypes(existing []ltype.Type, add []ltype.Type, hc *hashCache) []ltype.Type {
	seen := map[uint64]bool{}
	for _, t := range existing {
		seen[hc.hash(t)] = true
	}
	for _, t := range add {
		h := hc.hash(t)
		if seen[h] {
			continue
		}
		seen[h] = true
		existing = append(existing, t)
	}
	return existing
}

// toLType walks the DFA depth-first, assigning a fresh recursion variable
// the first time a state is pushed onto the current path and emitting a Var
// the moment that same path revisits it. onPath maps a state currently on
// the path to a flag owned by its own stack frame: the flag is set the
// instant some descendant, while the state is still on the path, actually
// emits a reference to it, so the frame can tell afterwards whether to wrap
// its translation in a Rec at all (spec.md §4.6: wrap "iff the recursion
// variable was referenced").
func (d *dfaBuilder) toLType(s *dfaState, onPath map[*dfaState]*bool) ltype.Type {
	if referenced, ok := onPath[s]; ok {
		*referenced = true
		return &ltype.Var{TVar: d.recVarName(s)}
	}
	referenced := new(bool)
	onPath[s] = referenced

	keys := sortedKeys(d.transitions[s])
	branches := make([]ltype.Type, 0, len(keys))
	for _, key := range keys {
		next := d.transitions[s][key]
		cont := d.toLType(next, onPath)
		branches = append(branches, &ltype.Msg{Action: s.actions[key], Cont: cont})
	}

	var cur ltype.Type = ltype.End{}
	switch len(branches) {
	case 0:
	case 1:
		cur = branches[0]
	default:
		cur = &ltype.Choice{Branches: branches}
	}

	if *referenced {
		cur = &ltype.Rec{TVar: d.recVarName(s), Body: cur}
	}

	delete(onPath, s)
	return cur
}

func (d *dfaBuilder) recVarName(s *dfaState) string {
	if name, ok := d.recNames[s.hash]; ok {
		return name
	}
	name := fmt.Sprintf("t%d", d.nextTVar)
	d.nextTVar++
	d.recNames[s.hash] = name
	return name
}

func sortedKeys(m map[action.Key]*dfaState) []action.Key {
	keys := make([]action.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Label != keys[j].Label {
			return keys[i].Label < keys[j].Label
		}
		if keys[i].Peer != keys[j].Peer {
			return keys[i].Peer < keys[j].Peer
		}
		return keys[i].Polarity < keys[j].Polarity
	})
	return keys
}
