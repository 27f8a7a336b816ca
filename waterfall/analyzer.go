// Package waterfall measures CP-16 tones in a PCM signal and draws them
// the way a waterfall (spectrogram) display would.
//
// It's mostly useful to preview a signal without a radio and to verify
// that an encoded text is readable.
package waterfall

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/benderblog/cp16"
)

// Row holds the measured amplitude of every CP-16 tone over a single
// analysis window. The amplitude is in sample units (0..32767).
type Row [cp16.NumChannels]float64

// Config describes the analyzed signal.
type Config struct {
	SampleRate int

	// Frequencies lists the tone of every channel, in Hz.
	Frequencies [cp16.NumChannels]int

	// Window is the number of samples in a single row.
	// Using the encoder samples-per-row value aligns the rows
	// with the glyph rows.
	Window int
}

// ConfigFromInfo returns a config that matches the encoder signal.
func ConfigFromInfo(info cp16.EncoderInfo) Config {
	return Config{
		SampleRate:  info.SampleRate,
		Frequencies: info.Frequencies,
		Window:      info.SamplesPerRow,
	}
}

// Analyzer splits the signal into windows and measures every tone
// inside each window with the Goertzel algorithm.
//
// Analyzer is an io.Writer for 16-bit little endian mono PCM,
// so it can be attached to an encoder output with io.TeeReader.
// It's safe for concurrent use.
type Analyzer struct {
	mu sync.Mutex

	window int
	coeffs [cp16.NumChannels]float64

	// Goertzel state for the current window.
	s1, s2  [cp16.NumChannels]float64
	filled  int
	oddByte []byte

	rows []Row
}

// NewAnalyzer creates an analyzer for the signal described by the config.
// A non-positive window is treated as a single sample window.
func NewAnalyzer(config Config) *Analyzer {
	a := &Analyzer{window: config.Window}
	if a.window < 1 {
		a.window = 1
	}
	for i, f := range config.Frequencies {
		a.coeffs[i] = 2 * math.Cos(2*math.Pi*float64(f)/float64(config.SampleRate))
	}
	return a
}

// Write consumes PCM bytes. It never fails.
// A trailing odd byte is kept until the next Write call.
func (a *Analyzer) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(p)
	if len(a.oddByte) != 0 && len(p) != 0 {
		a.push(int16(binary.LittleEndian.Uint16([]byte{a.oddByte[0], p[0]})))
		a.oddByte = a.oddByte[:0]
		p = p[1:]
	}
	for len(p) >= 2 {
		a.push(int16(binary.LittleEndian.Uint16(p)))
		p = p[2:]
	}
	if len(p) == 1 {
		a.oddByte = append(a.oddByte, p[0])
	}
	return n, nil
}

// AddSamples consumes decoded samples.
func (a *Analyzer) AddSamples(samples []int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range samples {
		a.push(v)
	}
}

func (a *Analyzer) push(v int16) {
	x := float64(v)
	for i, c := range a.coeffs {
		s0 := x + c*a.s1[i] - a.s2[i]
		a.s2[i], a.s1[i] = a.s1[i], s0
	}
	a.filled++
	if a.filled < a.window {
		return
	}

	var row Row
	for i, c := range a.coeffs {
		s1, s2 := a.s1[i], a.s2[i]
		power := s1*s1 + s2*s2 - c*s1*s2
		// A full-scale sine gives a magnitude of window/2.
		row[i] = 2 * math.Sqrt(math.Max(power, 0)) / float64(a.window)
	}
	a.rows = append(a.rows, row)
	a.s1 = [cp16.NumChannels]float64{}
	a.s2 = [cp16.NumChannels]float64{}
	a.filled = 0
}

// Len reports the number of complete rows.
func (a *Analyzer) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rows)
}

// Rows returns a copy of the complete rows.
// An incomplete trailing window is not included.
func (a *Analyzer) Rows() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows := make([]Row, len(a.rows))
	copy(rows, a.rows)
	return rows
}

// RowsFrom returns a copy of the complete rows starting from the index.
// It's handy for incremental drawing.
func (a *Analyzer) RowsFrom(index int) []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index >= len(a.rows) {
		return nil
	}
	rows := make([]Row, len(a.rows)-index)
	copy(rows, a.rows[index:])
	return rows
}

// Analyze is a convenience wrapper that measures the entire signal.
func Analyze(samples []int16, config Config) []Row {
	a := NewAnalyzer(config)
	a.AddSamples(samples)
	return a.rows
}
