package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ErrNoText is returned when the command line has no text to encode.
var ErrNoText = errors.New("no text to encode")

// CLI is the cp16 command configuration.
type CLI struct {
	Encoding

	// Text is the positional arguments joined with spaces.
	Text string

	// Path is the output WAV file; "-" means stdout.
	// An empty path plays the signal instead.
	Path string

	// Waterfall is the output PNG file for the waterfall preview.
	Waterfall string

	Verbose bool
}

// ParseCLI parses the command line arguments (without the program name).
//
// Flag defaults come from the CP16_* environment variables.
// The pflag.ErrHelp error is returned as is when help is requested.
func ParseCLI(name string, args []string, output io.Writer) (*CLI, error) {
	return parseCLI(name, args, output, newEnvReader())
}

func parseCLI(name string, args []string, output io.Writer, env *envReader) (*CLI, error) {
	cfg := &CLI{Encoding: defaultEncoding(env)}
	if env.err != nil {
		return nil, env.err
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "%s - draw text on a waterfall display with 16 tones.\n\n", name)
		fmt.Fprintf(output, "Usage: %s [options] text...\n", name)
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Output sample rate, Hz.")
	fs.IntVar(&cfg.StartFreq, "start-freq", cfg.StartFreq, "Frequency of the lowest tone, Hz.")
	fs.IntVar(&cfg.Step, "step", cfg.Step, "Distance between adjacent tones, Hz.")
	fs.BoolVar(&cfg.DisableVertical, "disable-vertical", cfg.DisableVertical,
		"Render glyphs rotated, for waterfalls with a horizontal time axis.")
	fs.Float64Var(&cfg.TimePerFont, "time-per-font", cfg.TimePerFont, "Display time of a single character, seconds.")
	fs.BoolVar(&cfg.Reverse, "reverse", cfg.Reverse, "Send the characters in reverse order.")
	fs.StringVarP(&cfg.Path, "path", "o", "", `Write a WAV file instead of playing, "-" for stdout.`)
	fs.StringVar(&cfg.Waterfall, "waterfall", "", "Write a PNG waterfall preview.")
	fs.StringVar(&cfg.Font, "font", cfg.Font, "Built-in font: basic or gomono.")
	fs.StringVar(&cfg.FontFile, "font-file", cfg.FontFile, "GNU Unifont .hex file.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Text = strings.Join(fs.Args(), " ")
	if cfg.Text == "" {
		fs.Usage()
		return nil, ErrNoText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
