package ltype

import (
	"testing"

	"github.com/mpst-lang/mpstgo/action"
)

func send(peer, label string, cont Type) Type {
	return &Msg{Action: action.New("self", peer, action.Send, label, nil), Cont: cont}
}

func TestResolveAssignsBinderIDs(t *testing.T) {
	body := &Rec{TVar: "t", Body: send("B", "ping", &Var{TVar: "t"})}
	reg, err := Resolve(body)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(reg.Binders) != 1 {
		t.Fatalf("expected 1 binder, got %d", len(reg.Binders))
	}
	v := body.Body.(*Msg).Cont.(*Var)
	if v.BinderID != reg.Binders[0].ID {
		t.Fatalf("var did not resolve to its enclosing binder")
	}
}

func TestHashIsStableAcrossEquivalentRecursiveTypes(t *testing.T) {
	t1 := &Rec{TVar: "t", Body: send("B", "ping", &Var{TVar: "t"})}
	t2 := &Rec{TVar: "s", Body: send("B", "ping", &Var{TVar: "s"})}

	reg1, _ := Resolve(t1)
	reg2, _ := Resolve(t2)
	c1 := ComputeHashes(t1, reg1)
	c2 := ComputeHashes(t2, reg2)

	if Hash(t1, c1) != Hash(t2, c2) {
		t.Fatalf("expected alpha-equivalent recursive types to hash identically")
	}
}

func TestHashDistinguishesDifferentActions(t *testing.T) {
	t1 := send("B", "ping", End{})
	t2 := send("B", "pong", End{})
	reg1, _ := Resolve(t1)
	reg2, _ := Resolve(t2)
	c1 := ComputeHashes(t1, reg1)
	c2 := ComputeHashes(t2, reg2)
	if Hash(t1, c1) == Hash(t2, c2) {
		t.Fatalf("expected different labels to hash differently")
	}
}

func TestFixpointFirstOfRecursiveType(t *testing.T) {
	body := &Rec{TVar: "t", Body: send("B", "ping", &Var{TVar: "t"})}
	reg, err := Resolve(body)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	cache := ComputeFixpoints(reg)
	first := First(body, cache)
	want := action.New("self", "B", action.Send, "ping", nil).Key()
	if _, ok := first[want]; !ok {
		t.Fatalf("expected first(rec) to include the ping action, got %v", first)
	}
}

func TestFixpointStepLoopsBackToSameBinder(t *testing.T) {
	rec := &Rec{TVar: "t", Body: send("B", "ping", &Var{TVar: "t"})}
	reg, _ := Resolve(rec)
	cache := ComputeFixpoints(reg)
	step := Step(rec, cache)
	key := action.New("self", "B", action.Send, "ping", nil).Key()
	conts, ok := step[key]
	if !ok || len(conts) != 1 {
		t.Fatalf("expected a single continuation for ping, got %v", conts)
	}
	if _, ok := conts[0].(*Var); !ok {
		t.Fatalf("expected the continuation to be the recursion variable, got %T", conts[0])
	}
}
