package glyph

import (
	"testing"
)

func TestPixelBounds(t *testing.T) {
	var rows [Height]uint16
	for i := range rows {
		rows[i] = 0xffff
	}
	g := New(HalfWidth, rows)

	if g.Row(0) != 0xff00 {
		t.Errorf("half-width rows must be masked to 8 bits, got %04x", g.Row(0))
	}

	tests := []struct {
		col, row int
		want     bool
	}{
		{0, 0, true},
		{7, 15, true},
		{8, 0, false},
		{-1, 0, false},
		{0, 16, false},
		{0, -1, false},
	}
	for _, test := range tests {
		if have := g.Pixel(test.col, test.row); have != test.want {
			t.Errorf("Pixel(%d, %d): have %v, want %v", test.col, test.row, have, test.want)
		}
	}
}

func TestWiden(t *testing.T) {
	var rows [Height]uint16
	rows[3] = 0b1010_0001 << 8
	wide := Widen(New(HalfWidth, rows))

	if !wide.IsFullWidth() || wide.Width() != FullWidth {
		t.Fatalf("expected a full-width glyph, got width=%d", wide.Width())
	}
	if have, want := wide.Row(3), uint16(0b11001100_00000011); have != want {
		t.Errorf("row 3: have %016b, want %016b", have, want)
	}
	if Widen(wide) != wide {
		t.Error("widening a full-width glyph must be a no-op")
	}
}

type mapFont map[rune]*Glyph

func (f mapFont) Glyph(r rune) (*Glyph, bool) {
	g, ok := f[r]
	return g, ok
}

func TestResolve(t *testing.T) {
	a := New(HalfWidth, [Height]uint16{0xff00})
	q := New(FullWidth, [Height]uint16{0xffff})

	g, substituted := Resolve(mapFont{'a': a, FallbackRune: q}, 'a')
	if g != a || substituted {
		t.Errorf("a: expected the font glyph, substituted=%v", substituted)
	}

	g, substituted = Resolve(mapFont{'a': a, FallbackRune: q}, 'b')
	if g != q || !substituted {
		t.Errorf("b: expected the font fallback glyph, substituted=%v", substituted)
	}

	g, substituted = Resolve(mapFont{'a': a}, 'b')
	if g != Fallback() || !substituted {
		t.Errorf("b: expected the built-in fallback glyph, substituted=%v", substituted)
	}
	if !g.IsFullWidth() {
		t.Error("the built-in fallback must be a full-width glyph")
	}
}

func TestChain(t *testing.T) {
	a1 := New(HalfWidth, [Height]uint16{0x8000})
	a2 := New(HalfWidth, [Height]uint16{0x4000})
	b := New(HalfWidth, [Height]uint16{0x2000})
	chain := Chain{mapFont{'a': a1}, mapFont{'a': a2, 'b': b}}

	if g, _ := chain.Glyph('a'); g != a1 {
		t.Error("the first font in the chain must win")
	}
	if g, _ := chain.Glyph('b'); g != b {
		t.Error("b must be found in the second font")
	}
	if _, ok := chain.Glyph('c'); ok {
		t.Error("c must be missing")
	}
}
