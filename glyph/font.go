package glyph

// Font maps characters to their glyphs.
//
// A lookup miss is reported with ok=false; use Resolve to get
// a fallback glyph instead.
//
// Implementations must be safe for concurrent use.
type Font interface {
	Glyph(r rune) (g *Glyph, ok bool)
}

// Resolve returns the glyph for r.
//
// If the font has no glyph for r, the FallbackRune glyph is returned
// with substituted=true. If even the fallback can't be found,
// the built-in fallback glyph is used, so the result is never nil.
func Resolve(f Font, r rune) (g *Glyph, substituted bool) {
	if g, ok := f.Glyph(r); ok {
		return g, false
	}
	if g, ok := f.Glyph(FallbackRune); ok {
		return g, true
	}
	return fallbackGlyph, true
}

// fallbackGlyph is a full-width question mark.
var fallbackGlyph = New(FullWidth, [Height]uint16{
	0x0000,
	0x0000,
	0x0000,
	0x07e0,
	0x0ff0,
	0x1c38,
	0x1838,
	0x0070,
	0x00e0,
	0x01c0,
	0x0180,
	0x0180,
	0x0000,
	0x0180,
	0x0180,
	0x0000,
})

// Fallback returns the built-in full-width question mark glyph.
func Fallback() *Glyph { return fallbackGlyph }

// Chain is a font that consults its members in order.
// It's useful to put a custom font in front of a built-in one.
type Chain []Font

func (c Chain) Glyph(r rune) (*Glyph, bool) {
	for _, f := range c {
		if g, ok := f.Glyph(r); ok {
			return g, true
		}
	}
	return nil, false
}
