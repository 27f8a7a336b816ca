package waterfall

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/benderblog/cp16"
)

// RenderOptions controls the waterfall image layout.
type RenderOptions struct {
	// Orientation must match the encoder orientation for the text
	// to appear upright.
	//
	// Vertical puts the time axis downwards and the tones from left to right.
	// Horizontal puts the time axis to the right and the highest tone on top.
	Orientation cp16.Orientation

	// Scale is the size of a single cell, in pixels.
	//
	// A zero value will use 4.
	Scale int

	// Level is the amplitude that is painted white.
	// Amplitudes above the level are clamped.
	//
	// A zero value will use FullLevel.
	Level float64
}

// FullLevel is the amplitude of a single tone of a full-width glyph.
const FullLevel = float64(cp16.MaxAmplitude) / (2 * cp16.NumChannels)

// Render draws the rows as a grayscale image.
func Render(rows []Row, opts RenderOptions) *image.Gray {
	if opts.Scale == 0 {
		opts.Scale = 4
	}
	if opts.Level == 0 {
		opts.Level = FullLevel
	}

	cells := renderCells(rows, opts)
	if opts.Scale == 1 {
		return cells
	}
	b := cells.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*opts.Scale, b.Dy()*opts.Scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), cells, b, draw.Src, nil)
	return dst
}

// renderCells draws every (row, channel) cell as a single pixel.
func renderCells(rows []Row, opts RenderOptions) *image.Gray {
	var img *image.Gray
	if opts.Orientation == cp16.Horizontal {
		img = image.NewGray(image.Rect(0, 0, len(rows), cp16.NumChannels))
	} else {
		img = image.NewGray(image.Rect(0, 0, cp16.NumChannels, len(rows)))
	}

	for y, row := range rows {
		for ch, amp := range row {
			c := color.Gray{Y: intensity(amp, opts.Level)}
			if opts.Orientation == cp16.Horizontal {
				img.SetGray(y, cp16.NumChannels-1-ch, c)
			} else {
				img.SetGray(ch, y, c)
			}
		}
	}
	return img
}

func intensity(amp, level float64) uint8 {
	v := amp / level
	if v >= 1 {
		return 0xff
	}
	if v <= 0 {
		return 0
	}
	return uint8(v * 0xff)
}
