package gtype

import (
	"testing"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/namegen"
)

func ping(cont Type) Type {
	return &Msg{Action: action.NewGlobal("A", "B", "ping", nil), Cont: cont}
}

func TestResolveAssignsBinderIDs(t *testing.T) {
	body := &Rec{TVar: "t", Body: ping(&Var{TVar: "t"})}
	reg, err := Resolve(body)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(reg.Binders) != 1 {
		t.Fatalf("expected 1 binder, got %d", len(reg.Binders))
	}
	msg := body.Body.(*Msg)
	v := msg.Cont.(*Var)
	if v.BinderID != reg.Binders[0].ID {
		t.Fatalf("var did not resolve to enclosing binder")
	}
}

func TestResolveUnboundVarErrors(t *testing.T) {
	if _, err := Resolve(&Var{TVar: "nope"}); err == nil {
		t.Fatalf("expected error for unbound recursion variable")
	}
}

func TestNormalizeCollapsesSingleBranchChoice(t *testing.T) {
	choice := &Choice{Role: "A", Branches: []Type{ping(End{})}}
	got := Normalize(choice, namegen.New())
	if _, ok := got.(*Msg); !ok {
		t.Fatalf("expected single-branch choice to collapse to its branch, got %T", got)
	}
}

func TestNormalizeFlattensNestedChoiceSameRole(t *testing.T) {
	inner := &Choice{Role: "A", Branches: []Type{ping(End{}), ping(End{})}}
	outer := &Choice{Role: "A", Branches: []Type{inner, ping(End{})}}
	got := Normalize(outer, namegen.New())
	c, ok := got.(*Choice)
	if !ok {
		t.Fatalf("expected Choice, got %T", got)
	}
	if len(c.Branches) != 3 {
		t.Fatalf("expected flattened choice to have 3 branches, got %d", len(c.Branches))
	}
}

func TestNormalizeDropsUnusedRec(t *testing.T) {
	rec := &Rec{TVar: "t", Body: ping(End{})}
	got := Normalize(rec, namegen.New())
	if _, ok := got.(*Rec); ok {
		t.Fatalf("expected unused recursion binder to be dropped")
	}
}

func TestNormalizeRenamesBindersUniquely(t *testing.T) {
	branch1 := &Rec{TVar: "t", Body: ping(&Var{TVar: "t"})}
	branch2 := &Rec{TVar: "t", Body: ping(&Var{TVar: "t"})}
	choice := &Choice{Role: "A", Branches: []Type{branch1, branch2}}
	got := Normalize(choice, namegen.New()).(*Choice)
	r1 := got.Branches[0].(*Rec)
	r2 := got.Branches[1].(*Rec)
	if r1.TVar == r2.TVar {
		t.Fatalf("expected distinct recursion names, both %q", r1.TVar)
	}
}

func TestNormalizeCollapsesDirectlyNestedRecBinders(t *testing.T) {
	nested := &Rec{TVar: "t1", Body: &Rec{TVar: "t2", Body: ping(&Var{TVar: "t2"})}}
	got := Normalize(nested, namegen.New())

	outer, ok := got.(*Rec)
	if !ok {
		t.Fatalf("expected a single Rec, got %T", got)
	}
	if _, ok := outer.Body.(*Rec); ok {
		t.Fatalf("expected nested Rec to collapse away, got nested Rec in body")
	}
	msg, ok := outer.Body.(*Msg)
	if !ok {
		t.Fatalf("expected Msg body after collapsing, got %T", outer.Body)
	}
	v, ok := msg.Cont.(*Var)
	if !ok {
		t.Fatalf("expected Var continuation, got %T", msg.Cont)
	}
	if v.TVar != outer.TVar {
		t.Fatalf("expected inner Var to now refer to %q, got %q", outer.TVar, v.TVar)
	}
}
