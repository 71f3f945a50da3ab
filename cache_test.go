package framez

import "testing"

func TestDynamicTypeNameStable(t *testing.T) {
	f := newFakeFilter(1)
	first := dynamicTypeName(f)
	second := dynamicTypeName(f)
	if first != second {
		t.Fatalf("dynamicTypeName not stable across calls: %q vs %q", first, second)
	}
	if first == "" {
		t.Fatalf("dynamicTypeName returned empty string")
	}
}

func TestDynamicTypeNameDistinguishesTypes(t *testing.T) {
	a := dynamicTypeName(newFakeFilter(1))
	b := dynamicTypeName(panicFilter{})
	if a == b {
		t.Fatalf("dynamicTypeName returned the same name for distinct types: %q", a)
	}
}
