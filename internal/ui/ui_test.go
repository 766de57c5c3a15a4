package ui

import (
	"bytes"
	"testing"
)

func TestNormalizeColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":        ColorAuto,
		"ALWAYS":  ColorAlways,
		" never ": ColorNever,
		"bogus":   ColorAuto,
	}
	for input, want := range cases {
		if got := NormalizeColorMode(input); got != want {
			t.Fatalf("NormalizeColorMode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStatusfWritesToErrWithoutColor(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, ColorAlways, true)

	u.Statusf("summary: %d items\n", 3)

	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
	if errOut.String() != "summary: 3 items\n" {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
}
