package waterfall

import (
	"github.com/benderblog/cp16/glyph"
)

// Threshold is the default decision level for Keyed and DecodeVertical.
// It's a half of FullLevel, so both half-width and full-width glyphs
// are detected.
const Threshold = FullLevel / 2

// Keyed returns the channels that sound in the row as a bit mask.
// Channel 0 is stored in the most significant bit,
// so the result is laid out like a glyph row.
func Keyed(row Row, threshold float64) uint16 {
	var bits uint16
	for ch, amp := range row {
		if amp > threshold {
			bits |= 0x8000 >> uint(ch)
		}
	}
	return bits
}

// DecodeVertical recovers the glyph bitmaps from a vertically encoded signal.
//
// The rows must be aligned with the glyph rows (see ConfigFromInfo).
// Every glyph takes 16 data rows and a spacer row.
// The results are always full-width glyphs: half-width glyphs
// appear centered inside them, the same way they sound.
// A trailing incomplete glyph is ignored.
func DecodeVertical(rows []Row, threshold float64) []*glyph.Glyph {
	const rowsPerGlyph = glyph.Height + 1

	var glyphs []*glyph.Glyph
	for len(rows) >= glyph.Height {
		var bitmap [glyph.Height]uint16
		for y := range bitmap {
			bitmap[y] = Keyed(rows[y], threshold)
		}
		glyphs = append(glyphs, glyph.New(glyph.FullWidth, bitmap))
		if len(rows) < rowsPerGlyph {
			break
		}
		rows = rows[rowsPerGlyph:]
	}
	return glyphs
}
