package framez

import "testing"

type cloneCounter struct {
	refcounted
	clones *int
}

func (c *cloneCounter) Clone() *cloneCounter {
	*c.clones++
	return &cloneCounter{refcounted: newRefcounted(), clones: c.clones}
}

func TestRefcountedAddRelease(t *testing.T) {
	r := newRefcounted()
	if !r.Unique() {
		t.Fatalf("fresh refcounted should be unique")
	}
	r.AddRef()
	if r.Unique() {
		t.Fatalf("refcounted with 2 refs should not be unique")
	}
	if r.Release() {
		t.Fatalf("Release() with 2 refs should not report final release")
	}
	if !r.Release() {
		t.Fatalf("Release() with 1 ref remaining should report final release")
	}
}

func TestUsurpOrCloneUnique(t *testing.T) {
	clones := 0
	c := &cloneCounter{refcounted: newRefcounted(), clones: &clones}
	out := usurpOrClone(c.Unique(), c)
	if out != c {
		t.Fatalf("usurpOrClone(unique) should return the same value")
	}
	if clones != 0 {
		t.Fatalf("usurpOrClone(unique) should not clone, cloned %d times", clones)
	}
}

func TestUsurpOrCloneShared(t *testing.T) {
	clones := 0
	c := &cloneCounter{refcounted: newRefcounted(), clones: &clones}
	c.AddRef() // simulate a second owner

	out := usurpOrClone(c.Unique(), c)
	if out == c {
		t.Fatalf("usurpOrClone(shared) should return a distinct clone")
	}
	if clones != 1 {
		t.Fatalf("usurpOrClone(shared) cloned %d times, want 1", clones)
	}
}
