package glyph

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FaceFont rasterizes glyphs of a font.Face into 16 pixel high cells.
//
// Glyphs with an advance of up to 8 pixels become half-width glyphs,
// the rest are full-width. Anti-aliased pixels are thresholded at 50%.
//
// The full-width ASCII forms (U+FF01..U+FF5E) and the ideographic space
// are synthesized from their ASCII counterparts unless the face has them.
//
// Rasterized glyphs are cached, so every rune is rendered only once.
type FaceFont struct {
	// font.Face implementations are not safe for concurrent use.
	mu sync.Mutex

	face     font.Face
	has      func(r rune) bool
	baseline int
	cache    map[rune]*Glyph
}

// NewFaceFont creates a font from the given face.
//
// has reports whether the face really has a glyph for a rune.
// Most faces substitute a replacement glyph silently,
// so they can't be trusted with this decision.
// A nil has function assumes that every rune is present.
func NewFaceFont(face font.Face, has func(r rune) bool) *FaceFont {
	if has == nil {
		has = func(rune) bool { return true }
	}
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	top := (Height - (ascent + m.Descent.Ceil())) / 2
	if top < 0 {
		top = 0
	}
	return &FaceFont{
		face:     face,
		has:      has,
		baseline: top + ascent,
		cache:    make(map[rune]*Glyph),
	}
}

// Glyph implements the Font interface.
func (f *FaceFont) Glyph(r rune) (*Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, cached := f.cache[r]
	if !cached {
		g = f.lookup(r)
		f.cache[r] = g
	}
	return g, g != nil
}

func (f *FaceFont) lookup(r rune) *Glyph {
	if f.has(r) {
		return f.rasterize(r)
	}
	switch {
	case r == '　':
		return New(FullWidth, [Height]uint16{})
	case r >= '！' && r <= '～':
		narrow := r - 0xfee0
		if f.has(narrow) {
			if g := f.rasterize(narrow); g != nil {
				return Widen(g)
			}
		}
	}
	return nil
}

func (f *FaceFont) rasterize(r rune) *Glyph {
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.P(0, f.baseline), r)
	if !ok {
		return nil
	}

	width := HalfWidth
	if advance.Ceil() > HalfWidth {
		width = FullWidth
	}
	if offset := (width - advance.Ceil()) / 2; offset > 0 {
		dr = dr.Add(image.Pt(offset, 0))
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, Height))
	draw.DrawMask(dst, dr, image.Opaque, image.Point{}, mask, maskp, draw.Over)

	var rows [Height]uint16
	for y := 0; y < Height; y++ {
		for x := 0; x < width; x++ {
			if dst.AlphaAt(x, y).A >= 0x80 {
				rows[y] |= 0x8000 >> uint(x)
			}
		}
	}
	return New(width, rows)
}

// BasicFont returns a font based on the basicfont.Face7x13.
// It covers ASCII and Latin-1 plus the full-width forms derived from them.
func BasicFont() *FaceFont {
	face := basicfont.Face7x13
	return NewFaceFont(face, func(r rune) bool {
		for _, rng := range face.Ranges {
			if r >= rng.Low && r < rng.High {
				return true
			}
		}
		return false
	})
}

// GoMonoFont returns a font based on the Go Mono typeface.
func GoMonoFont() (*FaceFont, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse Go Mono: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create Go Mono face: %w", err)
	}
	// The buffer is only used under the FaceFont lock.
	var buf sfnt.Buffer
	return NewFaceFont(face, func(r rune) bool {
		i, err := f.GlyphIndex(&buf, r)
		return err == nil && i != 0
	}), nil
}

var defaultFont struct {
	once sync.Once
	font *FaceFont
}

// Default returns the font that is used when no other font is specified.
// It's a shared BasicFont instance.
func Default() Font {
	defaultFont.once.Do(func() {
		defaultFont.font = BasicFont()
	})
	return defaultFont.font
}

// Builtin returns one of the built-in fonts by its name.
// Known names are "basic" and "gomono".
func Builtin(name string) (Font, error) {
	switch name {
	case "", "basic":
		return Default(), nil
	case "gomono":
		return GoMonoFont()
	default:
		return nil, fmt.Errorf("unknown built-in font %q", name)
	}
}
