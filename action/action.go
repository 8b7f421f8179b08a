//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package action defines the atomic send/receive event exchanged between two
// roles of a protocol, and the unordered, polarity-less form of the same
// event used by the global type.
package action

import (
	"fmt"
	"hash/fnv"
)

// Polarity distinguishes the two sides of a two-party interaction from a
// single role's point of view.
type Polarity int

const (
	// Send marks an action where the projecting role transmits a message.
	Send Polarity = iota
	// Recv marks an action where the projecting role receives a message.
	Recv
)

// String renders the polarity using the "!"/"?" convention used throughout
// local-type pretty-printing, e.g. "!B.ping", "?B.pong".
func (p Polarity) String() string {
	if p == Send {
		return "!"
	}
	return "?"
}

// Payload is one named, typed value carried by an Action. Name is
// informational only: it does not participate in Action equality or
// hashing.
type Payload struct {
	Name string
	Type string
}

// Action is a single send or receive event local to one role: its peer, the
// direction of the transfer, the discriminator label, and the ordered
// payload list.
//
// Equality and hashing consider only (Peer, Polarity, Label); Payloads
// affect channel wiring during code generation but never action identity.
type Action struct {
	Role     string
	Peer     string
	Polarity Polarity
	Label    string
	Payloads []Payload
}

// New builds an Action, defaulting any empty payload name to a positional
// placeholder (p_0, p_1, ...) and lower-casing the first letter of any
// payload name that begins with an upper-case letter.
func New(role, peer string, polarity Polarity, label string, payloads []Payload) Action {
	normalized := make([]Payload, len(payloads))
	for i, p := range payloads {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("p_%d", i)
		} else {
			name = lowerFirst(name)
		}
		normalized[i] = Payload{Name: name, Type: p.Type}
	}
	return Action{Role: role, Peer: peer, Polarity: polarity, Label: label, Payloads: normalized}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}

// Dual swaps the projecting role with its peer and flips the polarity,
// yielding the action observed by the other side of the same interaction.
func (a Action) Dual() Action {
	polarity := Send
	if a.Polarity == Send {
		polarity = Recv
	}
	return Action{
		Role:     a.Peer,
		Peer:     a.Role,
		Polarity: polarity,
		Label:    a.Label,
		Payloads: a.Payloads,
	}
}

// Key is the comparable (peer, polarity, label) identity of an Action,
// suitable for use as a map key wherever actions must be grouped or
// deduplicated by identity rather than by full payload equality.
type Key struct {
	Peer     string
	Polarity Polarity
	Label    string
}

// Key returns the comparable identity of a.
func (a Action) Key() Key {
	return Key{Peer: a.Peer, Polarity: a.Polarity, Label: a.Label}
}

// identityKey is the string form of Key used for hashing.
func (a Action) identityKey() string {
	return fmt.Sprintf("%s\x00%d\x00%s", a.Peer, a.Polarity, a.Label)
}

// Equal reports whether two actions share the same peer, polarity and
// label, ignoring the projecting role, payload names and payload types.
func (a Action) Equal(o Action) bool {
	return a.Peer == o.Peer && a.Polarity == o.Polarity && a.Label == o.Label
}

// Hash returns a hash consistent with Equal: two actions that compare equal
// always hash identically.
func (a Action) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(a.identityKey()))
	return h.Sum64()
}

// String renders the action the way local-type diagnostics and the CLI's
// "-dump-local" mode print it, e.g. "!B.ping" or "?A.stop".
func (a Action) String() string {
	return fmt.Sprintf("%s%s.%s", a.Polarity, a.Peer, a.Label)
}

// Global is the unordered, polarity-less form of a two-party interaction
// recorded on a GMsg node: the pair of participants, the label and the
// payload list.
type Global struct {
	Participants [2]string
	Label        string
	Payloads     []Payload
}

// NewGlobal builds a Global action, applying the same payload name
// normalisation as New.
func NewGlobal(p1, p2, label string, payloads []Payload) Global {
	normalized := make([]Payload, len(payloads))
	for i, p := range payloads {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("p_%d", i)
		} else {
			name = lowerFirst(name)
		}
		normalized[i] = Payload{Name: name, Type: p.Type}
	}
	return Global{Participants: [2]string{p1, p2}, Label: label, Payloads: normalized}
}

// Project returns the local Action observed by role, or ok=false if role is
// not one of the two participants.
func (g Global) Project(role string) (Action, bool) {
	switch role {
	case g.Participants[0]:
		return New(g.Participants[0], g.Participants[1], Send, g.Label, g.Payloads), true
	case g.Participants[1]:
		return New(g.Participants[1], g.Participants[0], Recv, g.Label, g.Payloads), true
	default:
		return Action{}, false
	}
}

// String renders the global action as "A->B:label".
func (g Global) String() string {
	return fmt.Sprintf("%s->%s:%s", g.Participants[0], g.Participants[1], g.Label)
}
