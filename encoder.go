package cp16

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	"github.com/benderblog/cp16/glyph"
)

// NumChannels is the number of tones in a CP-16 signal.
// Every tone maps to a single pixel column (or row, see Orientation) of a glyph.
const NumChannels = 16

const bytesPerSample = 2

// maxSamplesPerRow keeps the per-glyph sample count within a 32-bit int.
const maxSamplesPerRow = math.MaxInt32 / (glyph.Height + 1)

// Encoder turns a text into a 16-bit mono PCM signal that draws the text
// glyphs on a waterfall (spectrogram) display.
//
// Every glyph is scanned row by row; during a row, the tones of all
// set pixels are mixed together. Every glyph is followed by a silent
// spacer row.
//
// The signal is pulled from the encoder with NextSample, ReadSamples or Read.
// An encoder is not safe for concurrent use, see SyncReader.
type Encoder struct {
	glyphs   []encodedGlyph
	channels [NumChannels]ToneChannel
	mode     renderMode

	sampleRate    int
	samplesPerRow int
	frequencies   [NumChannels]int
	numSamples    int

	// Current rendering position.
	glyphIndex int
	glyph      *glyph.Glyph
	layout     glyphLayout
	rowIndex   int
	rowSample  int

	samplePos   int
	endReported bool

	eventHandler func(e EncoderEvent)
}

type encodedGlyph struct {
	glyph *glyph.Glyph
	r     rune
}

// EncoderConfig configures the Encoder.
//
// These settings can't be changed after an encoder is created.
type EncoderConfig struct {
	// SampleRate is the output sample rate in Hz.
	//
	// A zero value will use a sample rate of 8000.
	SampleRate int

	// StartFreq is the frequency of the first tone (channel 0), in Hz.
	//
	// A zero value will use 1600 Hz, so a 0 Hz tone can't be requested.
	StartFreq int

	// Step is the distance between adjacent tones, in Hz.
	// The tone of channel i is StartFreq+i*Step.
	//
	// A zero value will use 15 Hz; the tones are always distinct.
	Step int

	// Orientation selects the glyph layout on the waterfall.
	// The default is Vertical.
	Orientation Orientation

	// TimePerChar is the time spent on a single glyph, in seconds.
	// It's divided between 16 rows; the spacer row adds an extra row time.
	//
	// A zero value will use 1 second.
	TimePerChar float64

	// Reverse renders the glyphs starting from the last character.
	Reverse bool

	// Font is used to resolve the text characters.
	//
	// A nil value will use glyph.Default().
	Font glyph.Font

	// OnMissingGlyph is called for every character that has no glyph in the font.
	// Such characters are rendered as a glyph.FallbackRune.
	// The index is a character index inside the text.
	OnMissingGlyph func(index int, r rune)
}

// EncoderInfo contains the encoder signal information.
type EncoderInfo struct {
	// SampleRate is the effective sample rate, in Hz.
	SampleRate int

	// SamplesPerRow tells how many samples render a single glyph row.
	SamplesPerRow int

	// NumSamples is the total signal length in samples.
	NumSamples int

	// NumGlyphs is the number of glyphs to render.
	NumGlyphs int

	// Duration is the total signal duration.
	Duration time.Duration

	// Frequencies lists the tone of every channel, in Hz.
	Frequencies [NumChannels]int
}

// NewEncoder creates an encoder for the text.
//
// The construction fails with ErrFrequencyExceedsNyquist if any of the tones
// can't be represented at the configured sample rate and with
// ErrEmptyGlyphSequence if there is nothing to encode.
func NewEncoder(text string, config EncoderConfig) (*Encoder, error) {
	applyConfigDefaults(&config)
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	frequencies := channelFrequencies(config.StartFreq, config.Step)
	limit := config.SampleRate / 2
	for i, f := range frequencies {
		if f > limit {
			return nil, &FrequencyError{Channel: i, Frequency: f, Limit: limit}
		}
	}

	rowLen := float64(config.SampleRate) / NumChannels * config.TimePerChar
	if rowLen > maxSamplesPerRow {
		return nil, &ConfigError{Field: "TimePerChar", Reason: "a glyph row is too long"}
	}
	samplesPerRow := int(rowLen)
	if samplesPerRow < 1 {
		return nil, &ConfigError{Field: "TimePerChar", Reason: "a glyph row is shorter than a single sample"}
	}

	glyphs := resolveText(text, &config)
	if len(glyphs) == 0 {
		return nil, ErrEmptyGlyphSequence
	}

	e := &Encoder{
		glyphs:        glyphs,
		mode:          newRenderMode(config.Orientation),
		sampleRate:    config.SampleRate,
		samplesPerRow: samplesPerRow,
		frequencies:   frequencies,
	}
	for _, g := range glyphs {
		n := (e.mode.layout(g.glyph).rowCount + 1) * samplesPerRow
		if e.numSamples > math.MaxInt-n {
			return nil, &ConfigError{Field: "TimePerChar", Reason: "the signal is too long"}
		}
		e.numSamples += n
	}

	e.rewind()

	return e, nil
}

func applyConfigDefaults(config *EncoderConfig) {
	if config.SampleRate == 0 {
		config.SampleRate = 8000
	}
	if config.StartFreq == 0 {
		config.StartFreq = 1600
	}
	if config.Step == 0 {
		config.Step = 15
	}
	if config.TimePerChar == 0 {
		config.TimePerChar = 1
	}
	if config.Font == nil {
		config.Font = glyph.Default()
	}
}

func validateConfig(config *EncoderConfig) error {
	switch {
	case config.SampleRate < 0:
		return &ConfigError{Field: "SampleRate", Reason: "must be positive"}
	case config.StartFreq < 0:
		return &ConfigError{Field: "StartFreq", Reason: "can't be negative"}
	case config.Step < 0:
		return &ConfigError{Field: "Step", Reason: "can't be negative"}
	case !(config.TimePerChar > 0):
		return &ConfigError{Field: "TimePerChar", Reason: "must be positive"}
	case config.Orientation != Vertical && config.Orientation != Horizontal:
		return &ConfigError{Field: "Orientation", Reason: "unknown orientation"}
	}
	return nil
}

func resolveText(text string, config *EncoderConfig) []encodedGlyph {
	runes := []rune(text)
	glyphs := make([]encodedGlyph, len(runes))
	for i, r := range runes {
		g, substituted := glyph.Resolve(config.Font, r)
		if substituted && config.OnMissingGlyph != nil {
			config.OnMissingGlyph(i, r)
		}
		glyphs[i] = encodedGlyph{glyph: g, r: r}
	}
	if config.Reverse {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	return glyphs
}

// SetEventHandler installs an event listener to the encoder.
//
// f is called on every encoder event.
// Events are produced while the samples are being pulled,
// so a single Read() call may produce multiple events.
func (e *Encoder) SetEventHandler(f func(ev EncoderEvent)) {
	e.eventHandler = f
}

// Info returns encoder-related info.
// See EncoderInfo for more details.
func (e *Encoder) Info() EncoderInfo {
	return EncoderInfo{
		SampleRate:    e.sampleRate,
		SamplesPerRow: e.samplesPerRow,
		NumSamples:    e.numSamples,
		NumGlyphs:     len(e.glyphs),
		Duration:      samplesDuration(e.numSamples, e.sampleRate),
		Frequencies:   e.frequencies,
	}
}

// Glyphs returns the glyphs in their rendering order.
func (e *Encoder) Glyphs() []*glyph.Glyph {
	out := make([]*glyph.Glyph, len(e.glyphs))
	for i, g := range e.glyphs {
		out[i] = g.glyph
	}
	return out
}

// Position reports the number of samples produced since the start.
func (e *Encoder) Position() int { return e.samplePos }

// Exhausted reports whether the encoder has no samples left.
func (e *Encoder) Exhausted() bool { return e.glyphIndex >= len(e.glyphs) }

// NextSample produces the next signal sample.
// When there are no samples left, ok=false is returned;
// this state is permanent until a Rewind call.
func (e *Encoder) NextSample() (v int16, ok bool) {
	if e.Exhausted() {
		e.reportEnd()
		return 0, false
	}

	if e.rowIndex == 0 && e.rowSample == 0 && e.eventHandler != nil {
		e.eventHandler(EncoderEvent{
			Kind:   EventGlyph,
			Glyph:  e.glyphIndex,
			Rune:   e.glyphs[e.glyphIndex].r,
			Sample: e.samplePos,
			Time:   e.sampleTime(),
		})
	}

	sum := 0
	// A row past the data rows is the spacer row, it stays silent.
	if e.rowIndex < e.layout.rowCount {
		for x := e.layout.startPadding; x < e.layout.colEnd; x++ {
			if e.mode.keyed(e.glyph, &e.layout, e.rowIndex, x) {
				sum += int(e.channels[x].NextSample())
			}
		}
	}
	// Halving the level keeps the mix of up to width tones within int16.
	v = int16(sum / (e.glyph.Width() * 2))

	e.samplePos++
	e.rowSample++
	if e.rowSample >= e.samplesPerRow {
		e.rowSample = 0
		e.rowIndex++
		if e.rowIndex > e.layout.rowCount {
			e.selectGlyph(e.glyphIndex + 1)
		}
	}

	return v, true
}

// ReadSamples fills dst with the next samples.
//
// When encoder has no samples to produce, io.EOF error is returned.
// The error can be returned along with n>0 samples.
func (e *Encoder) ReadSamples(dst []int16) (int, error) {
	n := 0
	for n < len(dst) {
		v, ok := e.NextSample()
		if !ok {
			break
		}
		dst[n] = v
		n++
	}
	if e.Exhausted() {
		e.reportEnd()
		return n, io.EOF
	}
	return n, nil
}

// Read puts next PCM bytes into provided slice.
//
// The encoder produces 16-bit little endian mono PCM bytes.
// The slice should fit at least a single sample (2 bytes);
// an odd trailing byte is left untouched.
//
// When encoder has no bytes to produce, io.EOF error is returned.
func (e *Encoder) Read(b []byte) (int, error) {
	if e.Exhausted() {
		e.reportEnd()
		return 0, io.EOF
	}
	if len(b) < bytesPerSample {
		return 0, io.ErrShortBuffer
	}

	written := 0
	for len(b) >= bytesPerSample {
		v, ok := e.NextSample()
		if !ok {
			break
		}
		binary.LittleEndian.PutUint16(b, uint16(v))
		written += bytesPerSample
		b = b[bytesPerSample:]
	}

	if e.Exhausted() {
		e.reportEnd()
		return written, io.EOF
	}
	return written, nil
}

// Seek supports only the two seeks a player needs:
// Seek(0, io.SeekStart) rewinds the encoder and Seek(0, io.SeekCurrent)
// reports the number of bytes that were read so far.
// Any other combination fails.
func (e *Encoder) Seek(offset int64, whence int) (int64, error) {
	if offset != 0 {
		return 0, errors.New("cp16: only zero offsets can be sought")
	}
	switch whence {
	case io.SeekStart:
		e.Rewind()
		return 0, nil
	case io.SeekCurrent:
		return int64(e.samplePos * bytesPerSample), nil
	default:
		return 0, errors.New("cp16: unsupported whence")
	}
}

// Rewind prepares the encoder to produce the signal right from the start.
// All tone channels are reset to their initial phase,
// so the signal is identical to the first run.
func (e *Encoder) Rewind() {
	e.rewind()
}

func (e *Encoder) rewind() {
	for i, f := range e.frequencies {
		e.channels[i] = NewToneChannel(f, e.sampleRate)
	}
	e.samplePos = 0
	e.endReported = false
	e.selectGlyph(0)
}

func (e *Encoder) selectGlyph(i int) {
	e.glyphIndex = i
	e.rowIndex = 0
	e.rowSample = 0
	if i >= len(e.glyphs) {
		return
	}
	e.glyph = e.glyphs[i].glyph
	e.layout = e.mode.layout(e.glyph)
}

func (e *Encoder) reportEnd() {
	if e.endReported {
		return
	}
	e.endReported = true
	if e.eventHandler != nil {
		e.eventHandler(EncoderEvent{
			Kind:   EventEnd,
			Glyph:  len(e.glyphs),
			Sample: e.samplePos,
			Time:   e.sampleTime(),
		})
	}
}

func (e *Encoder) sampleTime() float64 {
	return float64(e.samplePos) / float64(e.sampleRate)
}
