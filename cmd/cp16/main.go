// Command cp16 draws text on a waterfall display with 16 tones.
//
// The signal is played through the default audio device, or written
// to a WAV file with --path. A --waterfall PNG shows how the text
// should look on a receiver.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseCLI("cp16", args, os.Stderr)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrNoText):
		return 2
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger := newLogger(cfg.Verbose)
	defer logger.Sync()

	if err := encode(cfg, logger); err != nil {
		logger.Error(err.Error())
		return 1
	}
	return 0
}

func newLogger(verbose bool) *zap.Logger {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.DisableStacktrace = true
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		loggerConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		loggerConfig.DisableCaller = true
	}
	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func encode(cfg *config.CLI, logger *zap.Logger) error {
	font, err := cfg.LoadFont()
	if err != nil {
		return err
	}
	if !config.IsPreset(cfg.SampleRate) {
		logger.Warn("uncommon sample rate, the audio device may reject it",
			zap.Int("sampleRate", cfg.SampleRate), zap.Ints("presets", config.SampleRatePresets))
	}

	encoderConfig := cfg.EncoderConfig(font)
	encoderConfig.OnMissingGlyph = func(index int, r rune) {
		logger.Warn("font has no glyph for the character, using a fallback",
			zap.Int("index", index), zap.String("char", string(r)))
	}
	enc, err := cp16.NewEncoder(cfg.Text, encoderConfig)
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	info := enc.Info()
	logger.Info("will output",
		zap.String("text", cfg.Text),
		zap.Stringer("orientation", cfg.Orientation()),
		zap.Int("lowHz", info.Frequencies[0]),
		zap.Int("highHz", info.Frequencies[cp16.NumChannels-1]),
		zap.Duration("duration", info.Duration),
	)
	enc.SetEventHandler(func(ev cp16.EncoderEvent) {
		if ev.Kind == cp16.EventGlyph {
			logger.Debug("glyph", zap.Int("index", ev.Glyph), zap.String("char", string(ev.Rune)),
				zap.Float64("time", ev.Time))
		}
	})

	if cfg.Waterfall != "" {
		if err := writeWaterfall(cfg.Waterfall, enc, cfg.Orientation()); err != nil {
			return err
		}
		logger.Info("wrote waterfall preview", zap.String("path", cfg.Waterfall))
		enc.Rewind()
	}

	if cfg.Path != "" {
		if err := writeWAV(cfg.Path, enc); err != nil {
			return err
		}
		logger.Info("finished writing", zap.String("path", cfg.Path))
		return nil
	}
	if cfg.Waterfall != "" {
		return nil
	}

	logger.Info("path not provided, playing on the default audio device")
	return play(enc, cfg, logger)
}
