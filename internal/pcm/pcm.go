// Package pcm converts between 16-bit little endian PCM bytes and samples.
package pcm

import (
	"encoding/binary"
	"io"
)

// BytesPerSample is the size of a single 16-bit sample.
const BytesPerSample = 2

// AppendSamples appends the little endian encoding of samples to dst.
func AppendSamples(dst []byte, samples []int16) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

// Samples decodes the little endian PCM bytes.
// A trailing odd byte is ignored.
func Samples(b []byte) []int16 {
	samples := make([]int16, len(b)/BytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*BytesPerSample:]))
	}
	return samples
}

// Stereo widens a mono 16-bit stream into a stereo one
// by putting every sample into both channels.
//
// Players like ebiten/audio only accept stereo input.
type Stereo struct {
	src     io.Reader
	buf     []byte
	pending []byte
}

// NewStereo returns a stereo reader over a mono PCM source.
func NewStereo(src io.Reader) *Stereo {
	return &Stereo{src: src}
}

// Read fills p with whole stereo frames (4 bytes each).
func (s *Stereo) Read(p []byte) (int, error) {
	frames := len(p) / (2 * BytesPerSample)
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}

	need := frames * BytesPerSample
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	n := copy(buf, s.pending)
	s.pending = s.pending[:0]
	m, err := s.src.Read(buf[n:])
	n += m
	if n%BytesPerSample != 0 {
		n--
		s.pending = append(s.pending, buf[n])
	}

	for i := 0; i < n/BytesPerSample; i++ {
		lo, hi := buf[2*i], buf[2*i+1]
		p[4*i+0] = lo
		p[4*i+1] = hi
		p[4*i+2] = lo
		p[4*i+3] = hi
	}
	return 2 * n, err
}
