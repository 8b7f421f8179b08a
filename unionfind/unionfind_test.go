package unionfind

import "testing"

func TestAddMergesSharedKeys(t *testing.T) {
	uf := New[string, int]()
	uf.Add("A", "B", 1)
	uf.Add("B", "C", 2)
	uf.Add("D", "E", 3)

	subsets := uf.Subsets()
	if len(subsets) != 2 {
		t.Fatalf("expected 2 subsets, got %d: %v", len(subsets), subsets)
	}

	var sawMerged, sawSeparate bool
	for _, s := range subsets {
		switch len(s) {
		case 2:
			sawMerged = true
			if !contains(s, 1) || !contains(s, 2) {
				t.Fatalf("merged subset missing expected members: %v", s)
			}
		case 1:
			sawSeparate = true
			if s[0] != 3 {
				t.Fatalf("separate subset has wrong member: %v", s)
			}
		}
	}
	if !sawMerged || !sawSeparate {
		t.Fatalf("expected one merged and one separate subset, got %v", subsets)
	}
}

func TestAddDisjointKeysStaySeparate(t *testing.T) {
	uf := New[string, string]()
	uf.Add("A", "B", "branch1")
	uf.Add("C", "D", "branch2")
	if len(uf.Subsets()) != 2 {
		t.Fatalf("expected disjoint keys to remain separate")
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
