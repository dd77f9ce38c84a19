package main

import "testing"

func TestParsePostConv(t *testing.T) {
	conv, err := parsePostConv("0.25, 0.5, 0.25")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.25, 0.5, 0.25}
	if len(conv) != len(want) {
		t.Fatalf("parsed %d coefficients, want %d", len(conv), len(want))
	}
	for i := range want {
		if conv[i] != want[i] {
			t.Fatalf("coefficient %d = %v, want %v", i, conv[i], want[i])
		}
	}

	if conv, err := parsePostConv("  "); err != nil || conv != nil {
		t.Fatalf("blank post-conv = %v, %v", conv, err)
	}

	if _, err := parsePostConv("0.5,x"); err == nil {
		t.Fatal("expected error for non-numeric coefficient")
	}
}

func TestQuantize16(t *testing.T) {
	cases := []struct {
		in   float32
		want uint16
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 32768},
		{1, 65535},
		{1.5, 65535},
	}
	for _, c := range cases {
		if got := quantize16(c.in); got != c.want {
			t.Errorf("quantize16(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
