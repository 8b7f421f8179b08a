//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpst-lang/mpstgo/gtype"
)

func TestParseTwoPartyPing(t *testing.T) {
	src := `protocol Ping(A, B) {
		rec t {
			A->B:ping();
			B->A:pong();
			continue t;
		}
	}`

	protos, err := Parse("ping.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)
	require.Len(t, protos, 1)

	p, ok := protos["Ping"]
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, p.Roles)

	rec, ok := p.Body.(*gtype.Rec)
	require.True(t, ok, "expected top-level Rec, got %T", p.Body)
	require.Equal(t, "t", rec.TVar)

	ping, ok := rec.Body.(*gtype.Msg)
	require.True(t, ok)
	require.Equal(t, "ping", ping.Action.Label)

	pong, ok := ping.Cont.(*gtype.Msg)
	require.True(t, ok)
	require.Equal(t, "pong", pong.Action.Label)

	v, ok := pong.Cont.(*gtype.Var)
	require.True(t, ok)
	require.Equal(t, "t", v.TVar)

	_, err = gtype.Resolve(p.Body)
	require.NoError(t, err)
}

func TestParseSimpleChoice(t *testing.T) {
	src := `protocol Quote(A, B) {
		choice {
			A->B:yes();
			end;
		} or {
			A->B:no();
			end;
		}
	}`

	protos, err := Parse("quote.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)

	c, ok := protos["Quote"].Body.(*gtype.Choice)
	require.True(t, ok, "expected top-level Choice, got %T", protos["Quote"].Body)
	require.Len(t, c.Branches, 2)

	yes, ok := c.Branches[0].(*gtype.Msg)
	require.True(t, ok)
	require.Equal(t, "yes", yes.Action.Label)
	require.IsType(t, gtype.End{}, yes.Cont)

	no, ok := c.Branches[1].(*gtype.Msg)
	require.True(t, ok)
	require.Equal(t, "no", no.Action.Label)
	require.IsType(t, gtype.End{}, no.Cont)
}

func TestParsePayloadsNamedAndBare(t *testing.T) {
	src := `protocol Pay(A, B) {
		A->B:bill(amount: int, memo: string);
		B->A:ack(bool);
		end;
	}`

	protos, err := Parse("pay.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)

	bill := protos["Pay"].Body.(*gtype.Msg)
	require.Len(t, bill.Action.Payloads, 2)
	require.Equal(t, "amount", bill.Action.Payloads[0].Name)
	require.Equal(t, "int", bill.Action.Payloads[0].Type)
	require.Equal(t, "memo", bill.Action.Payloads[1].Name)

	ack := bill.Cont.(*gtype.Msg)
	require.Len(t, ack.Action.Payloads, 1)
	require.Equal(t, "p_0", ack.Action.Payloads[0].Name)
	require.Equal(t, "bool", ack.Action.Payloads[0].Type)
}

func TestParseImplicitEndAtClosingBrace(t *testing.T) {
	src := `protocol NoExplicitEnd(A, B) { A->B:hi(); }`

	protos, err := Parse("implicit.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)

	msg := protos["NoExplicitEnd"].Body.(*gtype.Msg)
	require.IsType(t, gtype.End{}, msg.Cont)
}

func TestParseUnicodeArrow(t *testing.T) {
	src := "protocol Arrow(A, B) { A→B:hi(); end; }"

	protos, err := Parse("unicode.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)
	msg := protos["Arrow"].Body.(*gtype.Msg)
	require.Equal(t, "hi", msg.Action.Label)
}

func TestParseScribbleSyntax(t *testing.T) {
	src := `role A, B;
	global protocol Ping(role A, role B) {
		A->B:ping();
		B->A:pong();
		end;
	}`

	protos, err := Parse("ping.scr", strings.NewReader(src), Scribble)
	require.NoError(t, err)

	p, ok := protos["Ping"]
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, p.Roles)
	require.IsType(t, &gtype.Msg{}, p.Body)
}

func TestParseScribbleWithoutRoleDecl(t *testing.T) {
	// The leading "role ...;" declaration is optional; the header's own
	// role list is authoritative either way.
	src := `global protocol Ping(role A, role B) {
		A->B:ping();
		end;
	}`

	protos, err := Parse("ping2.scr", strings.NewReader(src), Scribble)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, protos["Ping"].Roles)
}

func TestParseMultipleProtocolsInOneFile(t *testing.T) {
	src := `
	protocol First(A, B) { A->B:x(); end; }
	protocol Second(C, D) { C->D:y(); end; }
	`

	protos, err := Parse("multi.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)
	require.Len(t, protos, 2)
	require.Contains(t, protos, "First")
	require.Contains(t, protos, "Second")
}

func TestParseTwoLeaderCommunicatingPair(t *testing.T) {
	// Mirrors the "two-leader communicating pair" scenario: A and B
	// decide jointly, C and D are uniform across both branches.
	src := `protocol Pair(A, B, C, D) {
		choice {
			A->B:go();
			C->D:x();
			end;
		} or {
			B->A:stop();
			C->D:x();
			end;
		}
	}`

	protos, err := Parse("pair.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C", "D"}, protos["Pair"].Roles)

	c := protos["Pair"].Body.(*gtype.Choice)
	require.Len(t, c.Branches, 2)
}

func TestParseErrorReportsExcerpt(t *testing.T) {
	src := `protocol Broken(A, B) { A=>B:hi(); end; }`

	_, err := Parse("broken.mpst", strings.NewReader(src), MPST)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken.mpst")
}

func TestParseRejectsUnboundContinue(t *testing.T) {
	src := `protocol Unbound(A, B) { continue nope; }`

	protos, err := Parse("unbound.mpst", strings.NewReader(src), MPST)
	require.NoError(t, err) // parsing succeeds; binding is Resolve's job
	_, err = gtype.Resolve(protos["Unbound"].Body)
	require.Error(t, err)
}
