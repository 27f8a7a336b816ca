package cp16

import (
	"github.com/benderblog/cp16/glyph"
)

// Orientation selects how glyphs are laid out on a waterfall display.
type Orientation int

const (
	// Vertical renders upright glyphs on a waterfall where the time axis
	// goes downwards: every glyph row becomes a time slice and
	// every glyph column is keyed by its own tone.
	// Half-width glyphs are centered between the tones.
	Vertical Orientation = iota

	// Horizontal renders glyphs rotated by 90 degrees:
	// every glyph column becomes a time slice.
	// This is more readable on spectrograms with a horizontal time axis.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// glyphLayout holds the per-glyph rendering parameters.
type glyphLayout struct {
	// startPadding is the first keyed channel index.
	startPadding int

	// colEnd is an exclusive upper bound of the keyed channel indexes.
	colEnd int

	// rowCount is a number of data rows (time slices) for the glyph.
	// It's followed by a single silent spacer row.
	rowCount int
}

// renderMode maps glyph pixels onto (channel, row) pairs.
type renderMode interface {
	layout(g *glyph.Glyph) glyphLayout

	// keyed reports whether channel x should sound during the given row.
	keyed(g *glyph.Glyph, l *glyphLayout, row, x int) bool
}

func newRenderMode(o Orientation) renderMode {
	if o == Horizontal {
		return horizontalMode{}
	}
	return verticalMode{}
}

type verticalMode struct{}

func (verticalMode) layout(g *glyph.Glyph) glyphLayout {
	padding := 0
	if !g.IsFullWidth() {
		padding = (NumChannels - glyph.HalfWidth) / 2
	}
	return glyphLayout{
		startPadding: padding,
		colEnd:       g.Width() + padding,
		rowCount:     glyph.Height,
	}
}

func (verticalMode) keyed(g *glyph.Glyph, l *glyphLayout, row, x int) bool {
	return g.Pixel(x-l.startPadding, row)
}

type horizontalMode struct{}

func (horizontalMode) layout(g *glyph.Glyph) glyphLayout {
	return glyphLayout{
		startPadding: 0,
		colEnd:       NumChannels,
		rowCount:     g.Width(),
	}
}

func (horizontalMode) keyed(g *glyph.Glyph, l *glyphLayout, row, x int) bool {
	// Channel 0 maps to the row 16 which is outside of the glyph;
	// it's never keyed.
	return g.Pixel(row-l.startPadding, glyph.Height-x)
}
