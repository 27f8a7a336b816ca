package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/glyph"
)

// SampleRatePresets lists the sample rates that most sound devices
// and radio interfaces accept.
var SampleRatePresets = []int{8000, 16000, 32000, 44100, 48000}

// IsPreset reports whether the sample rate is one of SampleRatePresets.
func IsPreset(sampleRate int) bool {
	for _, sr := range SampleRatePresets {
		if sr == sampleRate {
			return true
		}
	}
	return false
}

// Encoding holds the encoder parameters shared by all programs.
type Encoding struct {
	SampleRate      int
	StartFreq       int
	Step            int
	DisableVertical bool
	TimePerFont     float64
	Reverse         bool

	// Font is a built-in font name, see glyph.Builtin.
	Font string

	// FontFile is an optional GNU Unifont .hex file.
	// Its glyphs take precedence over the built-in font.
	FontFile string
}

func defaultEncoding(env *envReader) Encoding {
	return Encoding{
		SampleRate:      env.Int("CP16_SAMPLE_RATE", 8000),
		StartFreq:       env.Int("CP16_START_FREQ", 1600),
		Step:            env.Int("CP16_STEP", 15),
		DisableVertical: env.Bool("CP16_DISABLE_VERTICAL", false),
		TimePerFont:     env.Float("CP16_TIME_PER_FONT", 1.5),
		Reverse:         env.Bool("CP16_REVERSE", false),
		Font:            env.String("CP16_FONT", "basic"),
		FontFile:        env.String("CP16_FONT_FILE", ""),
	}
}

// Validate checks the values that can't be caught by the encoder itself.
// The frequency plan is checked by cp16.NewEncoder.
func (e *Encoding) Validate() error {
	switch {
	case e.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", e.SampleRate)
	case e.StartFreq <= 0:
		return fmt.Errorf("start frequency must be positive, got %d", e.StartFreq)
	case e.Step <= 0:
		return fmt.Errorf("frequency step must be positive, got %d", e.Step)
	case !(e.TimePerFont > 0):
		return fmt.Errorf("time per font must be positive, got %v", e.TimePerFont)
	}
	return nil
}

// Orientation converts the DisableVertical flag.
func (e *Encoding) Orientation() cp16.Orientation {
	if e.DisableVertical {
		return cp16.Horizontal
	}
	return cp16.Vertical
}

// LoadFont returns the configured font.
func (e *Encoding) LoadFont() (glyph.Font, error) {
	builtin, err := glyph.Builtin(e.Font)
	if err != nil {
		return nil, err
	}
	if e.FontFile == "" {
		return builtin, nil
	}
	hex, err := glyph.LoadHexFile(e.FontFile)
	if err != nil {
		return nil, fmt.Errorf("load font file: %w", err)
	}
	return glyph.Chain{hex, builtin}, nil
}

// EncoderConfig builds the library config.
func (e *Encoding) EncoderConfig(font glyph.Font) cp16.EncoderConfig {
	return cp16.EncoderConfig{
		SampleRate:  e.SampleRate,
		StartFreq:   e.StartFreq,
		Step:        e.Step,
		Orientation: e.Orientation(),
		TimePerChar: e.TimePerFont,
		Reverse:     e.Reverse,
		Font:        font,
	}
}

// envReader reads typed environment variables.
// The first malformed value is kept in err.
type envReader struct {
	lookup func(key string) string
	err    error
}

func newEnvReader() *envReader {
	return &envReader{lookup: os.Getenv}
}

func (r *envReader) String(key, fallback string) string {
	if v := r.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) Int(key string, fallback int) int {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v)
		return fallback
	}
	return n
}

func (r *envReader) Float(key string, fallback float64) float64 {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v)
		return fallback
	}
	return f
}

func (r *envReader) Bool(key string, fallback bool) bool {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v)
		return fallback
	}
	return b
}

func (r *envReader) fail(key, value string) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s value %q", key, value)
	}
}
