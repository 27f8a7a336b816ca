package waterfall

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/glyph"
)

type mapFont map[rune]*glyph.Glyph

func (f mapFont) Glyph(r rune) (*glyph.Glyph, bool) {
	g, ok := f[r]
	return g, ok
}

func testGlyphs() mapFont {
	var diagonal [glyph.Height]uint16
	for y := range diagonal {
		diagonal[y] = 0x8000>>uint(y) | 1<<uint(y)
	}
	var checker [glyph.Height]uint16
	for y := range checker {
		if y%2 == 0 {
			checker[y] = 0xa500
		} else {
			checker[y] = 0x5a00
		}
	}
	return mapFont{
		'X': glyph.New(glyph.FullWidth, diagonal),
		'n': glyph.New(glyph.HalfWidth, checker),
		'h': glyph.New(glyph.FullWidth, [glyph.Height]uint16{15: 0x8000}),
	}
}

// encode uses well separated tones, so the analysis windows
// that match the glyph rows can resolve them.
func encode(t *testing.T, text string, orientation cp16.Orientation) ([]int16, cp16.EncoderInfo) {
	t.Helper()
	e, err := cp16.NewEncoder(text, cp16.EncoderConfig{
		SampleRate:  8000,
		StartFreq:   500,
		Step:        100,
		TimePerChar: 1,
		Orientation: orientation,
		Font:        testGlyphs(),
	})
	if err != nil {
		t.Fatal(err)
	}
	samples := make([]int16, e.Info().NumSamples)
	if _, err := e.ReadSamples(samples); err != nil && !errors.Is(err, io.EOF) {
		t.Fatal(err)
	}
	return samples, e.Info()
}

func TestDecodeVertical(t *testing.T) {
	font := testGlyphs()
	samples, info := encode(t, "Xn", cp16.Vertical)
	rows := Analyze(samples, ConfigFromInfo(info))
	if len(rows) != 2*(glyph.Height+1) {
		t.Fatalf("row count: have %d, want %d", len(rows), 2*(glyph.Height+1))
	}

	glyphs := DecodeVertical(rows, Threshold)
	if len(glyphs) != 2 {
		t.Fatalf("glyph count: have %d, want 2", len(glyphs))
	}
	for y := 0; y < glyph.Height; y++ {
		if have, want := glyphs[0].Row(y), font['X'].Row(y); have != want {
			t.Errorf("full-width row %d: have %016b, want %016b", y, have, want)
		}
		// The half-width glyph is centered between the tones.
		if have, want := glyphs[1].Row(y), font['n'].Row(y)>>4; have != want {
			t.Errorf("half-width row %d: have %016b, want %016b", y, have, want)
		}
	}

	for _, i := range []int{glyph.Height, 2*glyph.Height + 1} {
		if bits := Keyed(rows[i], Threshold); bits != 0 {
			t.Errorf("spacer row %d is not silent: %016b", i, bits)
		}
	}
}

func TestHorizontalKeying(t *testing.T) {
	samples, info := encode(t, "h", cp16.Horizontal)
	rows := Analyze(samples, ConfigFromInfo(info))
	if len(rows) != glyph.FullWidth+1 {
		t.Fatalf("row count: have %d, want %d", len(rows), glyph.FullWidth+1)
	}
	// The bottom left pixel is sounded by the channel 1 first.
	if bits := Keyed(rows[0], Threshold); bits != 0x8000>>1 {
		t.Errorf("first row: have %016b", bits)
	}
	for i, row := range rows[1:] {
		if bits := Keyed(row, Threshold); bits != 0 {
			t.Errorf("row %d: have %016b, want silence", i+1, bits)
		}
	}
}

func TestAnalyzerWrite(t *testing.T) {
	samples, info := encode(t, "n", cp16.Vertical)
	config := ConfigFromInfo(info)

	var pcm bytes.Buffer
	if err := binary.Write(&pcm, binary.LittleEndian, samples); err != nil {
		t.Fatal(err)
	}

	a := NewAnalyzer(config)
	data := pcm.Bytes()
	// Odd chunks split the samples between writes.
	for len(data) > 0 {
		n := 3
		if n > len(data) {
			n = len(data)
		}
		if _, err := a.Write(data[:n]); err != nil {
			t.Fatal(err)
		}
		data = data[n:]
	}

	want := Analyze(samples, config)
	have := a.Rows()
	if len(have) != len(want) {
		t.Fatalf("row count: have %d, want %d", len(have), len(want))
	}
	for i := range want {
		if have[i] != want[i] {
			t.Fatalf("row %d mismatch", i)
		}
	}
	if a.Len() != len(want) {
		t.Errorf("Len: have %d, want %d", a.Len(), len(want))
	}
	if tail := a.RowsFrom(len(want) - 1); len(tail) != 1 || tail[0] != want[len(want)-1] {
		t.Errorf("RowsFrom returned %d rows", len(tail))
	}
	if a.RowsFrom(len(want)) != nil {
		t.Error("expected no rows past the end")
	}
}

func TestRender(t *testing.T) {
	rows := []Row{{3: FullLevel}, {15: FullLevel / 2}}

	img := Render(rows, RenderOptions{Scale: 1})
	if b := img.Bounds(); b.Dx() != cp16.NumChannels || b.Dy() != 2 {
		t.Fatalf("vertical bounds: %v", b)
	}
	if v := img.GrayAt(3, 0).Y; v != 0xff {
		t.Errorf("vertical (3,0): have %d, want 255", v)
	}
	if v := img.GrayAt(15, 1).Y; v != 0x7f {
		t.Errorf("vertical (15,1): have %d, want 127", v)
	}
	if v := img.GrayAt(4, 0).Y; v != 0 {
		t.Errorf("vertical (4,0): have %d, want 0", v)
	}

	img = Render(rows, RenderOptions{Orientation: cp16.Horizontal, Scale: 1})
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != cp16.NumChannels {
		t.Fatalf("horizontal bounds: %v", b)
	}
	if v := img.GrayAt(0, 12).Y; v != 0xff {
		t.Errorf("horizontal (0,12): have %d, want 255", v)
	}

	img = Render(rows, RenderOptions{})
	if b := img.Bounds(); b.Dx() != 4*cp16.NumChannels || b.Dy() != 8 {
		t.Fatalf("scaled bounds: %v", b)
	}
	for y := 0; y < 4; y++ {
		for x := 12; x < 16; x++ {
			if v := img.GrayAt(x, y).Y; v != 0xff {
				t.Fatalf("scaled (%d,%d): have %d, want 255", x, y, v)
			}
		}
	}
}
