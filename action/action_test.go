package action

import "testing"

func TestActionEqualityIgnoresRoleAndPayload(t *testing.T) {
	a := New("A", "B", Send, "ping", []Payload{{Name: "x", Type: "int"}})
	b := New("C", "B", Send, "ping", []Payload{{Name: "y", Type: "string"}})
	if !a.Equal(b) {
		t.Fatalf("expected actions to be equal regardless of payload name/type")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("expected equal actions to hash identically")
	}
}

func TestActionEqualityDistinguishesPolarity(t *testing.T) {
	send := New("A", "B", Send, "ping", nil)
	recv := New("A", "B", Recv, "ping", nil)
	if send.Equal(recv) {
		t.Fatalf("send and recv actions with the same label must not be equal")
	}
}

func TestDualSwapsRoleAndFlipsPolarity(t *testing.T) {
	a := New("A", "B", Send, "ping", nil)
	d := a.Dual()
	if d.Role != "B" || d.Peer != "A" || d.Polarity != Recv {
		t.Fatalf("unexpected dual: %+v", d)
	}
}

func TestNewNormalizesPayloadNames(t *testing.T) {
	a := New("A", "B", Send, "go", []Payload{{Name: "Upper", Type: "int"}, {Name: "", Type: "bool"}})
	if a.Payloads[0].Name != "upper" {
		t.Fatalf("expected leading uppercase lowered, got %q", a.Payloads[0].Name)
	}
	if a.Payloads[1].Name != "p_1" {
		t.Fatalf("expected positional default p_1, got %q", a.Payloads[1].Name)
	}
}

func TestGlobalProject(t *testing.T) {
	g := NewGlobal("A", "B", "go", nil)
	a, ok := g.Project("A")
	if !ok || a.Polarity != Send || a.Peer != "B" {
		t.Fatalf("unexpected projection for sender: %+v ok=%v", a, ok)
	}
	b, ok := g.Project("B")
	if !ok || b.Polarity != Recv || b.Peer != "A" {
		t.Fatalf("unexpected projection for receiver: %+v ok=%v", b, ok)
	}
	if _, ok := g.Project("C"); ok {
		t.Fatalf("expected projection for unrelated role to fail")
	}
}
