package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/internal/wavfile"
	"github.com/benderblog/cp16/waterfall"
)

func writeWAV(path string, enc *cp16.Encoder) error {
	sampleRate := enc.Info().SampleRate

	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write WAV data to a terminal, redirect the output")
		}
		var buf wavfile.Buffer
		if _, err := wavfile.Write(&buf, sampleRate, enc); err != nil {
			return err
		}
		_, err := buf.WriteTo(os.Stdout)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := wavfile.Write(f, sampleRate, enc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeWaterfall(path string, enc *cp16.Encoder, orientation cp16.Orientation) error {
	analyzer := waterfall.NewAnalyzer(waterfall.ConfigFromInfo(enc.Info()))
	if _, err := io.Copy(analyzer, enc); err != nil {
		return err
	}
	img := waterfall.Render(analyzer.Rows(), waterfall.RenderOptions{Orientation: orientation})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
