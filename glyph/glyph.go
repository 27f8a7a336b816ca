package glyph

// Height is the number of pixel rows in every glyph cell.
const Height = 16

const (
	// HalfWidth is the cell width of a regular (narrow) glyph.
	HalfWidth = 8

	// FullWidth is the cell width of a wide glyph, like CJK ideographs.
	FullWidth = 16
)

// FallbackRune is substituted for characters that a font can't resolve.
// It's a full-width question mark.
const FallbackRune = '？'

// Glyph is an immutable bitmap of a single character.
//
// The origin is at the top left corner of the cell: the column index
// grows to the right and the row index grows downwards.
//
// Glyphs are shared between all users of a font and must never be modified.
type Glyph struct {
	// rows[y] stores the pixels of a row, the leftmost
	// pixel is stored in the most significant bit.
	rows      [Height]uint16
	width     int
	fullWidth bool
}

// New creates a glyph of the given width from the row bitmaps.
// The leftmost pixel of a row is its most significant bit (bit 15);
// for half-width glyphs only the upper 8 bits are used.
//
// A width other than HalfWidth or FullWidth is treated as HalfWidth.
func New(width int, rows [Height]uint16) *Glyph {
	g := &Glyph{rows: rows, width: HalfWidth}
	if width == FullWidth {
		g.width = FullWidth
		g.fullWidth = true
	} else {
		for y := range g.rows {
			g.rows[y] &= 0xff00
		}
	}
	return g
}

// Width reports the glyph cell width, it's either 8 or 16.
func (g *Glyph) Width() int { return g.width }

// IsFullWidth reports whether this is a wide (16 pixels) glyph.
func (g *Glyph) IsFullWidth() bool { return g.fullWidth }

// Pixel reports whether the pixel at (col, row) is set.
// Coordinates outside of the glyph cell are never set.
func (g *Glyph) Pixel(col, row int) bool {
	if col < 0 || col >= g.width || row < 0 || row >= Height {
		return false
	}
	return g.rows[row]&(0x8000>>uint(col)) != 0
}

// Row returns the raw bitmap of the specified row.
func (g *Glyph) Row(row int) uint16 {
	if row < 0 || row >= Height {
		return 0
	}
	return g.rows[row]
}

// String renders the glyph as text, one line per row.
// It's handy for debugging and test failure messages.
func (g *Glyph) String() string {
	b := make([]byte, 0, (g.width+1)*Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Pixel(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

// Widen stretches a half-width glyph horizontally by doubling every pixel.
// The result is a full-width glyph.
// A full-width glyph is returned as is.
func Widen(g *Glyph) *Glyph {
	if g.fullWidth {
		return g
	}
	var rows [Height]uint16
	for y, bits := range g.rows {
		var wide uint16
		for x := 0; x < HalfWidth; x++ {
			if bits&(0x8000>>uint(x)) != 0 {
				wide |= 0xc000 >> uint(2*x)
			}
		}
		rows[y] = wide
	}
	return New(FullWidth, rows)
}
