package framez

import "testing"

func strPtr(s string) *string { return &s }

func TestTableSetGet(t *testing.T) {
	tbl := NewTable(0)
	tbl.Set(NPos, "first")
	tbl.Set(NPos, "second")

	if got := tbl.Get(0); got != "first" {
		t.Fatalf("Get(0) = %v, want first", got)
	}
	if got := tbl.Get(1); got != "second" {
		t.Fatalf("Get(1) = %v, want second", got)
	}
	if tbl.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", tbl.Size())
	}
}

func TestTableKeyLookup(t *testing.T) {
	tbl := NewTable(0)
	ref := uint64(0)
	tbl.Set(NPos, 42)
	tbl.SetKey(ref, strPtr("answer"))

	if got := tbl.GetRef("answer"); got != ref {
		t.Fatalf("GetRef(answer) = %d, want %d", got, ref)
	}
	if got := tbl.GetRef("missing"); got != NPos {
		t.Fatalf("GetRef(missing) = %d, want NPos", got)
	}
}

func TestTableCloneIsShallowAndIndependent(t *testing.T) {
	tbl := NewTable(0)
	tbl.Set(NPos, "original")

	clone := tbl.Clone()
	clone.Set(0, "mutated")

	if got := tbl.Get(0); got != "original" {
		t.Fatalf("original table mutated via clone: Get(0) = %v", got)
	}
	if got := clone.Get(0); got != "mutated" {
		t.Fatalf("clone Get(0) = %v, want mutated", got)
	}
}

func TestTableSnapshotRoundTrip(t *testing.T) {
	tbl := NewTable(0)
	tbl.Set(NPos, "hello")
	tbl.SetKey(0, strPtr("greeting"))

	data, err := tbl.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	restored, err := UnmarshalTableSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalTableSnapshot: %v", err)
	}
	if restored.Size() != 1 {
		t.Fatalf("restored Size() = %d, want 1", restored.Size())
	}
	if got := restored.GetRef("greeting"); got != 0 {
		t.Fatalf("restored GetRef(greeting) = %d, want 0", got)
	}
}
