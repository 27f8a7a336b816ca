// Package wavfile writes CP-16 signals as WAV files.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth = 16

	// formatPCM is the WAVE_FORMAT_PCM format tag.
	formatPCM = 1

	chunkSize = 4096

	headerSize = 44
)

// ErrTooLong is returned when the samples don't fit a RIFF file.
var ErrTooLong = errors.New("wavfile: signal exceeds the 4 GiB WAV size limit")

// maxSamples is the largest data chunk that keeps the RIFF size within 32 bits.
var maxSamples = (math.MaxUint32 - headerSize) / (bitDepth / 8)

// SampleReader is implemented by *cp16.Encoder.
type SampleReader interface {
	ReadSamples(dst []int16) (int, error)
}

// Write encodes every sample from src as a mono 16-bit WAV stream.
//
// The WAV header is finalized with seeks, so w must be seekable;
// use Buffer for non-seekable destinations.
// It returns the number of written samples.
func Write(w io.WriteSeeker, sampleRate int, src SampleReader) (int, error) {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, formatPCM)

	samples := make([]int16, chunkSize)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, 0, chunkSize),
		SourceBitDepth: bitDepth,
	}

	total := 0
	for {
		n, err := src.ReadSamples(samples)
		if total+n > maxSamples {
			return total, ErrTooLong
		}
		if n != 0 {
			buf.Data = buf.Data[:n]
			for i, v := range samples[:n] {
				buf.Data[i] = int(v)
			}
			if werr := enc.Write(buf); werr != nil {
				return total, fmt.Errorf("write samples: %w", werr)
			}
			total += n
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("finalize wav: %w", err)
	}
	return total, nil
}

// Buffer is an in-memory io.WriteSeeker.
// It lets Write produce a WAV image for a pipe or an HTTP response.
type Buffer struct {
	data []byte
	pos  int
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Len reports the buffer size.
func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return 0, errors.New("wavfile: invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("wavfile: negative position")
	}
	b.pos = int(pos)
	return pos, nil
}

// WriteTo implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}
