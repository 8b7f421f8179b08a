package project

import (
	"testing"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/gtype"
	"github.com/mpst-lang/mpstgo/ltype"
)

func TestProjectLinearProtocol(t *testing.T) {
	g := &gtype.Msg{
		Action: action.NewGlobal("A", "B", "ping", nil),
		Cont:   gtype.End{},
	}
	locals, err := Project(&gtype.Protocol{Roles: []string{"A", "B"}, Body: g})
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	aMsg, ok := locals["A"].(*ltype.Msg)
	if !ok {
		t.Fatalf("expected A's projection to be a Msg, got %T", locals["A"])
	}
	if aMsg.Action.Polarity != action.Send {
		t.Fatalf("expected A to send, got %s", aMsg.Action.Polarity)
	}
	bMsg, ok := locals["B"].(*ltype.Msg)
	if !ok {
		t.Fatalf("expected B's projection to be a Msg, got %T", locals["B"])
	}
	if bMsg.Action.Polarity != action.Recv {
		t.Fatalf("expected B to receive, got %s", bMsg.Action.Polarity)
	}
}

func TestProjectSkipsUninvolvedRole(t *testing.T) {
	g := &gtype.Msg{
		Action: action.NewGlobal("A", "B", "ping", nil),
		Cont:   gtype.End{},
	}
	locals, err := Project(&gtype.Protocol{Roles: []string{"A", "B", "C"}, Body: g})
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	if _, ok := locals["C"].(ltype.End); !ok {
		t.Fatalf("expected uninvolved role C to project to End, got %T", locals["C"])
	}
}

func TestProjectChoicePreservesBranchCount(t *testing.T) {
	branch1 := &gtype.Msg{Action: action.NewGlobal("A", "B", "accept", nil), Cont: gtype.End{}}
	branch2 := &gtype.Msg{Action: action.NewGlobal("A", "B", "reject", nil), Cont: gtype.End{}}
	g := &gtype.Choice{Role: "A", Branches: []gtype.Type{branch1, branch2}}
	locals, err := Project(&gtype.Protocol{Roles: []string{"A", "B"}, Body: g})
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	choice, ok := locals["B"].(*ltype.Choice)
	if !ok {
		t.Fatalf("expected B's projection to be a Choice, got %T", locals["B"])
	}
	if len(choice.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(choice.Branches))
	}
}
