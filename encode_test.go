package framez

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type payload struct {
		Name string
		N    int
	}
	want := payload{Name: "frame", N: 42}

	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode[payload](data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("Decode() = %+v, want %+v", got, want)
	}
}
