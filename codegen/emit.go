//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package codegen

import (
	"fmt"
	"strings"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
)

// emitRoleBody renders role's canonical local type t as the body of its
// generated run function: channel sends/receives, a Go label and goto per
// Rec/Var, and a switch per Choice (one branch chosen by ChooseBranch when
// role itself sends, one branch dispatched on the received label when role
// receives).
func emitRoleBody(role string, t ltype.Type, chans []*channelDef, msgs []*messageDef, gen *namegen.Generator) (string, error) {
	var b strings.Builder
	labels := map[string]string{}
	byLabel := make(map[string]string, len(msgs))
	for _, m := range msgs {
		byLabel[m.Label] = m.GoName
	}
	if err := emitNode(&b, role, t, chans, byLabel, gen, labels, 1); err != nil {
		return "", err
	}
	return b.String(), nil
}

func goNameForLabel(byLabel map[string]string, label string) (string, error) {
	name, ok := byLabel[label]
	if !ok {
		return "", fmt.Errorf("codegen: no message type generated for label %q", label)
	}
	return name, nil
}

func channelFor(role, peer string, chans []*channelDef) (*channelDef, error) {
	key := pairKey(role, peer)
	for _, c := range chans {
		if pairKey(c.A, c.B) == key {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no channel generated connecting %s and %s", role, peer)
}

// sideField returns the struct field of a channelDef a role reads or
// writes: ToB is the direction A->B, ToA is B->A.
func sideField(role string, ch *channelDef, send bool) string {
	aToB := role == ch.A
	if aToB == send {
		return "ToB"
	}
	return "ToA"
}

func emitNode(b *strings.Builder, role string, t ltype.Type, chans []*channelDef, byLabel map[string]string, gen *namegen.Generator, labels map[string]string, indent int) error {
	pad := strings.Repeat("\t", indent)
	switch n := t.(type) {
	case ltype.End:
		fmt.Fprintf(b, "%sreturn cb.Done()\n", pad)
		return nil

	case *ltype.Msg:
		ch, err := channelFor(role, n.Action.Peer, chans)
		if err != nil {
			return err
		}
		goName, err := goNameForLabel(byLabel, n.Action.Label)
		if err != nil {
			return err
		}
		if n.Action.Polarity == action.Send {
			field := sideField(role, ch, true)
			// payload and err are scoped to the if statement so that
			// consecutive sends do not redeclare them.
			fmt.Fprintf(b, "%sif payload, err := cb.Produce%s(); err != nil {\n%s\treturn nil, err\n%s} else {\n", pad, goName, pad, pad)
			fmt.Fprintf(b, "%s\tch.%s.%s <- messages.Envelope{Label: %q, Payload: payload}\n%s}\n", pad, ch.GoName, field, n.Action.Label, pad)
		} else {
			field := sideField(role, ch, false)
			fmt.Fprintf(b, "%sif err := cb.Handle%s((<-ch.%s.%s).Payload.(messages.%s)); err != nil {\n%s\treturn nil, err\n%s}\n", pad, goName, ch.GoName, field, goName, pad, pad)
		}
		return emitNode(b, role, n.Cont, chans, byLabel, gen, labels, indent)

	case *ltype.Rec:
		label := gen.Unique("label", n.TVar)
		labels[n.TVar] = label
		fmt.Fprintf(b, "%s%s:\n", strings.Repeat("\t", indent-1), label)
		return emitNode(b, role, n.Body, chans, byLabel, gen, labels, indent)

	case *ltype.Var:
		label, ok := labels[n.TVar]
		if !ok {
			return fmt.Errorf("codegen: recursion variable %q referenced before its binder", n.TVar)
		}
		fmt.Fprintf(b, "%sgoto %s\n", pad, label)
		return nil

	case *ltype.Choice:
		if len(n.Branches) == 0 {
			fmt.Fprintf(b, "%sreturn cb.Done()\n", pad)
			return nil
		}
		polarity, err := choicePolarity(n.Branches)
		if err != nil {
			return err
		}
		if polarity == action.Send {
			return emitInternalChoice(b, role, n, chans, byLabel, gen, labels, indent)
		}
		return emitExternalChoice(b, role, n, chans, byLabel, gen, labels, indent)

	default:
		return fmt.Errorf("codegen: unknown local type node %T", t)
	}
}

// emitInternalChoice emits the case where role itself decides which
// message to send next.
func emitInternalChoice(b *strings.Builder, role string, c *ltype.Choice, chans []*channelDef, byLabel map[string]string, gen *namegen.Generator, labels map[string]string, indent int) error {
	pad := strings.Repeat("\t", indent)
	options := make([]string, len(c.Branches))
	for i, br := range c.Branches {
		options[i] = br.(*ltype.Msg).Action.Label
	}
	fmt.Fprintf(b, "%schosen, err := cb.ChooseBranch(%s)\n", pad, goStringSlice(options))
	fmt.Fprintf(b, "%sif err != nil {\n%s\treturn nil, err\n%s}\n", pad, pad, pad)
	fmt.Fprintf(b, "%sswitch chosen {\n", pad)
	for _, br := range c.Branches {
		label := br.(*ltype.Msg).Action.Label
		fmt.Fprintf(b, "%scase %q:\n", pad, label)
		if err := emitNode(b, role, br, chans, byLabel, gen, labels, indent+1); err != nil {
			return err
		}
	}
	fmt.Fprintf(b, "%sdefault:\n%s\treturn nil, fmt.Errorf(\"unknown branch %%q chosen\", chosen)\n%s}\n", pad, pad, pad)
	return nil
}

// choicePolarity reports the single polarity shared by every branch of a
// choice: spec.md §4.7 groups branches by peer so a role either picks among
// its own sends or dispatches on a received label, never both inside the
// same choice.
func choicePolarity(branches []ltype.Type) (action.Polarity, error) {
	first, ok := branches[0].(*ltype.Msg)
	if !ok {
		return 0, fmt.Errorf("codegen: choice branch is not a message (%T)", branches[0])
	}
	polarity := first.Action.Polarity
	for _, br := range branches[1:] {
		msg, ok := br.(*ltype.Msg)
		if !ok {
			return 0, fmt.Errorf("codegen: choice branch is not a message (%T)", br)
		}
		if msg.Action.Polarity != polarity {
			return 0, fmt.Errorf("codegen: choice mixes send and receive branches, which this code generator does not support")
		}
	}
	return polarity, nil
}

// groupByPeer partitions a choice's receive branches by the peer each
// expects its message from, preserving first-seen peer order.
func groupByPeer(branches []ltype.Type) (map[string][]*ltype.Msg, []string, error) {
	groups := map[string][]*ltype.Msg{}
	var order []string
	for _, br := range branches {
		msg, ok := br.(*ltype.Msg)
		if !ok {
			return nil, nil, fmt.Errorf("codegen: choice branch is not a message (%T)", br)
		}
		peer := msg.Action.Peer
		if _, ok := groups[peer]; !ok {
			order = append(order, peer)
		}
		groups[peer] = append(groups[peer], msg)
	}
	return groups, order, nil
}

// emitExternalChoice emits the case where role waits for a peer to pick one
// of several messages and dispatches on the label it receives. Branches are
// first grouped by peer (spec.md §4.7): receives sharing one peer fold into
// a single receive-then-switch, while receives spread across more than one
// peer need a fair select across each peer's channel before the label
// dispatch, since nothing here may suspend on more than one channel
// operation at a time other than that selector (spec.md §5).
func emitExternalChoice(b *strings.Builder, role string, c *ltype.Choice, chans []*channelDef, byLabel map[string]string, gen *namegen.Generator, labels map[string]string, indent int) error {
	groups, order, err := groupByPeer(c.Branches)
	if err != nil {
		return err
	}
	if len(order) == 1 {
		return emitPeerReceive(b, role, groups[order[0]], chans, byLabel, gen, labels, indent)
	}

	pad := strings.Repeat("\t", indent)
	fmt.Fprintf(b, "%svar env messages.Envelope\n", pad)
	fmt.Fprintf(b, "%sselect {\n", pad)
	for _, peer := range order {
		ch, err := channelFor(role, peer, chans)
		if err != nil {
			return err
		}
		field := sideField(role, ch, false)
		fmt.Fprintf(b, "%scase env = <-ch.%s.%s:\n", pad, ch.GoName, field)
	}
	fmt.Fprintf(b, "%s}\n", pad)
	return emitLabelSwitch(b, role, order, groups, chans, byLabel, gen, labels, indent)
}

// emitPeerReceive emits a single blocking receive on the channel to the
// branches' shared peer, followed by a switch dispatching on the label
// received.
func emitPeerReceive(b *strings.Builder, role string, msgs []*ltype.Msg, chans []*channelDef, byLabel map[string]string, gen *namegen.Generator, labels map[string]string, indent int) error {
	pad := strings.Repeat("\t", indent)
	ch, err := channelFor(role, msgs[0].Action.Peer, chans)
	if err != nil {
		return err
	}
	field := sideField(role, ch, false)
	fmt.Fprintf(b, "%senv := <-ch.%s.%s\n", pad, ch.GoName, field)
	return emitLabelSwitch(b, role, []string{msgs[0].Action.Peer}, map[string][]*ltype.Msg{msgs[0].Action.Peer: msgs}, chans, byLabel, gen, labels, indent)
}

// emitLabelSwitch emits a switch over env.Label covering every branch in
// groups, visited in peer order; labels are pairwise distinct across the
// whole choice (spec.md §3 invariant 3), so merging every peer's branches
// into one switch is safe regardless of how many peers fed it.
func emitLabelSwitch(b *strings.Builder, role string, order []string, groups map[string][]*ltype.Msg, chans []*channelDef, byLabel map[string]string, gen *namegen.Generator, labels map[string]string, indent int) error {
	pad := strings.Repeat("\t", indent)
	fmt.Fprintf(b, "%sswitch env.Label {\n", pad)
	for _, peer := range order {
		for _, msg := range groups[peer] {
			goName, err := goNameForLabel(byLabel, msg.Action.Label)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%scase %q:\n", pad, msg.Action.Label)
			fmt.Fprintf(b, "%s\tif err := cb.Handle%s(env.Payload.(messages.%s)); err != nil {\n%s\t\treturn nil, err\n%s\t}\n", pad, goName, goName, pad, pad)
			if err := emitNode(b, role, msg.Cont, chans, byLabel, gen, labels, indent+1); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(b, "%sdefault:\n%s\treturn nil, fmt.Errorf(\"unexpected message %%q\", env.Label)\n%s}\n", pad, pad, pad)
	return nil
}

func goStringSlice(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
