package main

import (
	"fmt"
	"image/color"
	"io"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/internal/config"
	"github.com/benderblog/cp16/internal/pcm"
	"github.com/benderblog/cp16/waterfall"
)

const (
	screenWidth  = 640
	screenHeight = 480

	// cellSize is the on-screen size of a waterfall cell.
	cellSize = 8

	debugTextHeight = 32
)

// play sends the signal to the default audio device and shows
// the waterfall as it's being played.
func play(enc *cp16.Encoder, cfg *config.CLI, logger *zap.Logger) error {
	info := enc.Info()

	g := &game{
		info:        info,
		orientation: cfg.Orientation(),
		logger:      logger,
		analyzer:    waterfall.NewAnalyzer(waterfall.ConfigFromInfo(info)),
		totalRows:   info.NumSamples / info.SamplesPerRow,
	}
	enc.SetEventHandler(func(ev cp16.EncoderEvent) {
		if ev.Kind == cp16.EventGlyph {
			g.glyphIndex.Store(int32(ev.Glyph))
		}
	})
	g.reader = cp16.NewSyncReader(enc)

	// The analyzer sees exactly what the device gets, silence tail included.
	var src io.Reader = io.TeeReader(g.reader, g.analyzer)

	// Create a sound player using the Ebitengine audio context.
	// The context wants stereo samples.
	audioContext := audio.NewContext(info.SampleRate)
	player, err := audioContext.NewPlayer(pcm.NewStereo(src))
	if err != nil {
		return fmt.Errorf("create audio player: %w", err)
	}
	g.player = player

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("cp16 - " + cfg.Text)
	player.Play()
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	player.Close()
	if !g.finished {
		logger.Info("playback interrupted")
		return nil
	}
	logger.Info("finished playing")
	return nil
}

type game struct {
	player   *audio.Player
	reader   *cp16.SyncReader
	analyzer *waterfall.Analyzer

	info        cp16.EncoderInfo
	orientation cp16.Orientation
	logger      *zap.Logger

	// Updated from the audio goroutine.
	glyphIndex atomic.Int32

	view      *ebiten.Image
	totalRows int
	drawnRows int

	paused   bool
	finished bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if g.player.IsPlaying() {
			g.player.Pause()
		} else {
			g.player.Play()
		}
	}

	g.drawNewRows()

	select {
	case <-g.reader.Done():
		if g.player.Position() >= g.info.Duration {
			g.finished = true
			return ebiten.Termination
		}
	default:
	}

	return nil
}

// drawNewRows renders the rows that were already heard.
// The player reads ahead, so the analyzer is usually a bit ahead too.
func (g *game) drawNewRows() {
	heard := int(g.player.Position().Seconds() * float64(g.info.SampleRate) / float64(g.info.SamplesPerRow))
	heard = min(heard, g.totalRows, g.analyzer.Len())
	if heard <= g.drawnRows {
		return
	}
	g.drawnRows = heard

	rows := g.analyzer.RowsFrom(max(0, heard-g.visibleRows()))
	rows = rows[:min(len(rows), g.visibleRows())]
	if g.view != nil {
		g.view.Dispose()
	}
	g.view = ebiten.NewImageFromImage(waterfall.Render(rows, waterfall.RenderOptions{
		Orientation: g.orientation,
		Scale:       1,
	}))
}

// visibleRows is the number of rows that fit the screen.
func (g *game) visibleRows() int {
	if g.orientation == cp16.Horizontal {
		return screenWidth / cellSize
	}
	return (screenHeight - debugTextHeight) / cellSize
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if g.view != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(cellSize, cellSize)
		if g.orientation == cp16.Horizontal {
			op.GeoM.Translate(0, float64(screenHeight-cp16.NumChannels*cellSize)/2)
		} else {
			op.GeoM.Translate(float64(screenWidth-cp16.NumChannels*cellSize)/2, debugTextHeight)
		}
		screen.DrawImage(g.view, op)
	}

	state := "Playing"
	if g.paused {
		state = "Paused... press SPACE"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nglyph %d/%d  %s / %s",
		state,
		min(int(g.glyphIndex.Load())+1, g.info.NumGlyphs), g.info.NumGlyphs,
		g.player.Position().Truncate(100*time.Millisecond), g.info.Duration.Truncate(100*time.Millisecond)))
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}
