package glyph

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// HexFont is a font loaded from the GNU Unifont .hex format.
//
// Every line of that format describes a single glyph:
//
//	0041:0000000018242442427E424242420000
//
// The code point is followed by 32 hex digits for a 8x16 glyph
// or by 64 hex digits for a 16x16 glyph, one row after another.
type HexFont struct {
	glyphs map[rune]*Glyph
}

// Glyph implements the Font interface.
func (f *HexFont) Glyph(r rune) (*Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// Len reports the number of glyphs in the font.
func (f *HexFont) Len() int { return len(f.glyphs) }

// ParseHex reads a .hex font data.
//
// A non-nil error is usually a *ParseError object.
func ParseHex(r io.Reader) (*HexFont, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return ParseHexBytes(data)
}

// ParseHexBytes is like ParseHex, but it works with a byte slice directly.
func ParseHexBytes(data []byte) (*HexFont, error) {
	p := &hexParser{
		data:   data,
		glyphs: make(map[rune]*Glyph, bytes.Count(data, []byte{'\n'})+1),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return &HexFont{glyphs: p.glyphs}, nil
}

// LoadHexFile loads a .hex font from the file system.
func LoadHexFile(filename string) (*HexFont, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	f, err := ParseHexBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

type hexParser struct {
	data []byte

	// line is a current line number, 1-based.
	line int

	glyphs map[rune]*Glyph
}

func (p *hexParser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    p.line,
	}
}

func (p *hexParser) parse() (err error) {
	defer func() {
		rv := recover()
		if rv != nil {
			if panicErr, ok := rv.(*ParseError); ok {
				err = panicErr
			} else {
				panic(rv)
			}
		}
	}()

	p.parseLines()

	return err // See the deferred call above
}

func (p *hexParser) parseLines() {
	data := p.data
	for len(data) != 0 {
		p.line++
		var l []byte
		if i := bytes.IndexByte(data, '\n'); i != -1 {
			l, data = data[:i], data[i+1:]
		} else {
			l, data = data, nil
		}
		l = bytes.TrimSpace(l)
		if len(l) == 0 || l[0] == '#' {
			continue
		}
		r, g := p.parseEntry(l)
		p.glyphs[r] = g
	}
}

func (p *hexParser) parseEntry(l []byte) (rune, *Glyph) {
	colon := bytes.IndexByte(l, ':')
	if colon == -1 {
		panic(p.errorf("missing ':' separator"))
	}
	codeDigits, bitmapDigits := l[:colon], l[colon+1:]

	if len(codeDigits) < 4 || len(codeDigits) > 6 {
		panic(p.errorf("invalid code point %q", codeDigits))
	}
	code := p.parseHex(codeDigits, "code point")
	if code > 0x10ffff {
		panic(p.errorf("code point %X is out of range", code))
	}

	var width int
	switch len(bitmapDigits) {
	case 32:
		width = HalfWidth
	case 64:
		width = FullWidth
	default:
		panic(p.errorf("unexpected bitmap length %d for U+%04X", len(bitmapDigits), code))
	}

	digitsPerRow := width / 4
	var rows [Height]uint16
	for y := 0; y < Height; y++ {
		bits := p.parseHex(bitmapDigits[y*digitsPerRow:(y+1)*digitsPerRow], "bitmap")
		if width == HalfWidth {
			bits <<= 8
		}
		rows[y] = uint16(bits)
	}

	return rune(code), New(width, rows)
}

func (p *hexParser) parseHex(digits []byte, what string) uint32 {
	v := uint32(0)
	for _, d := range digits {
		var nibble byte
		switch {
		case d >= '0' && d <= '9':
			nibble = d - '0'
		case d >= 'a' && d <= 'f':
			nibble = d - 'a' + 10
		case d >= 'A' && d <= 'F':
			nibble = d - 'A' + 10
		default:
			panic(p.errorf("invalid %s digit %q", what, d))
		}
		v = v<<4 | uint32(nibble)
	}
	return v
}
